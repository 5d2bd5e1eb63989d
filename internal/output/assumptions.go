package output

// DefaultAssumptions lists the modeling assumptions rendered when a comparison
// carries none of its own.
var DefaultAssumptions = []string{
	"Contributions are made monthly and credited once per year",
	"Gains are earned on the balance at the start of each year",
	"Returns compound annually at a constant scenario rate",
	"Inflation-adjusted balances are expressed in year-0 purchasing power",
	"Taxes and fees are not modeled",
}
