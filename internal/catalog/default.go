// internal/catalog/default.go
package catalog

// Default returns the built-in catalog of Nigerian statistical data sources.
// International portals come first: they publish stable HTML and are usually
// reachable, while several government sites are flaky or render with
// JavaScript.
func Default() *Catalog {
	c, err := New(defaultSources)
	if err != nil {
		// the built-in list is validated by tests
		panic("catalog: invalid built-in source list: " + err.Error())
	}
	return c
}

var defaultSources = []Source{
	{
		Name:     "World Bank Nigeria Data",
		URL:      "https://data.worldbank.org/country/nigeria",
		Category: "International Statistics",
		Method:   MethodDirect,
		Priority: 1,
	},
	{
		Name:     "IMF Nigeria Economic Indicators",
		URL:      "https://www.imf.org/en/Countries/NGA",
		Category: "Economic Statistics",
		Method:   MethodDirect,
		Priority: 1,
	},
	{
		Name:     "UN Data Nigeria",
		URL:      "https://data.un.org/en/iso/ng.html",
		Category: "International Statistics",
		Method:   MethodDirect,
		Priority: 1,
	},
	{
		Name:     "National Bureau of Statistics (NBS)",
		URL:      "https://www.nigerianstat.gov.ng",
		Category: "Official Statistics",
		Method:   MethodDirect,
		Priority: 1,
	},
	{
		Name:     "WHO Nigeria Data",
		URL:      "https://www.who.int/countries/nga",
		Category: "Health Statistics",
		Method:   MethodDirect,
		Priority: 1,
	},
	{
		Name:     "Central Bank of Nigeria",
		URL:      "https://www.cbn.gov.ng",
		Category: "Economic Statistics",
		Method:   MethodDirect,
		Priority: 2,
	},
	{
		Name:     "Knoema Nigeria Data",
		URL:      "https://knoema.com/atlas/Nigeria",
		Category: "General Statistics",
		Method:   MethodBrowser,
		Priority: 2,
	},
	{
		Name:     "Index Mundi Nigeria",
		URL:      "https://www.indexmundi.com/nigeria",
		Category: "General Statistics",
		Method:   MethodDirect,
		Priority: 2,
	},
	{
		Name:     "NairaMetrics",
		URL:      "https://nairametrics.com",
		Category: "Economic Statistics",
		Method:   MethodDirect,
		Priority: 2,
	},
	{
		Name:     "World Bank API Nigeria Indicators",
		URL:      "https://api.worldbank.org/v2/country/NGA/indicator/NY.GDP.MKTP.CD?format=json",
		Category: "International Statistics",
		Method:   MethodAPI,
		Priority: 1,
	},
	{
		Name:     "NCDC COVID-19 Statistics",
		URL:      "https://covid19.ncdc.gov.ng",
		Category: "Health Statistics",
		Method:   MethodDirect,
		Priority: 3,
	},
	{
		Name:     "National Population Commission",
		URL:      "https://nationalpopulation.gov.ng",
		Category: "Demographic Statistics",
		Method:   MethodDirect,
		Priority: 3,
	},
}
