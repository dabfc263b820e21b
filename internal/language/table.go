package language

// defaultTags maps each language to the fence tags and file extensions that
// name it. The first tag is the preferred file extension.
var defaultTags = map[string][]string{
	"abap":             {"abap"},
	"aes":              {"aes"},
	"apex":             {"cls"},
	"azcli":            {"azcli"},
	"bat":              {"bat", "batch", "cmd"},
	"bicep":            {"bicep"},
	"c":                {"c", "h"},
	"cameligo":         {"mligo"},
	"clojure":          {"clj", "cljs", "cljc", "edn"},
	"coffeescript":     {"coffee"},
	"cpp":              {"cpp", "c++", "cc", "cxx", "hpp", "hh", "hxx"},
	"csharp":           {"cs", "c#", "csharp", "csx", "cake"},
	"css":              {"css"},
	"cypher":           {"cypher", "cyp"},
	"dart":             {"dart"},
	"dockerfile":       {"dockerfile"},
	"ecl":              {"ecl"},
	"elixir":           {"ex", "exs"},
	"flow9":            {"flow"},
	"freemarker2":      {"ftl", "ftlh", "ftlx"},
	"fsharp":           {"fs", "fsi", "ml", "mli", "fsx", "fsscript"},
	"go":               {"go", "golang"},
	"graphql":          {"graphql", "gql"},
	"handlebars":       {"handlebars", "hbs"},
	"hcl":              {"hcl", "tf", "tfvars"},
	"html":             {"html", "htm", "shtml", "xhtml", "mdoc", "jsp", "asp", "aspx", "jshtm"},
	"ini":              {"ini", "properties", "gitconfig"},
	"java":             {"java", "jav"},
	"javascript":       {"js", "es6", "jsx", "cjs", "mjs"},
	"json":             {"json"},
	"julia":            {"jl"},
	"kotlin":           {"kt", "kts"},
	"latex":            {"tex", "sty"},
	"less":             {"less"},
	"lexon":            {"lex"},
	"liquid":           {"liquid"},
	"lua":              {"lua"},
	"m3":               {"m3", "i3", "mg", "ig"},
	"markdown":         {"md", "markdown", "mdown", "mkdn", "mkd", "mdwn", "mdtxt", "mdtext", "mdx"},
	"mips":             {"s"},
	"msdax":            {"dax", "msdax"},
	"objective-c":      {"m"},
	"pascal":           {"pas", "p", "pp"},
	"pascaligo":        {"ligo"},
	"perl":             {"pl", "pm"},
	"php":              {"php", "php4", "php5", "phtml", "ctp"},
	"pla":              {"pla"},
	"postiats":         {"dats", "sats", "hats"},
	"powerquery":       {"pq", "pqm"},
	"proto":            {"proto"},
	"pug":              {"pug", "jade"},
	"python":           {"py", "rpy", "pyu", "cpy", "gyp", "gypi"},
	"qsharp":           {"qs"},
	"r":                {"r", "rhistory", "rmd", "rprofile", "rt"},
	"razor":            {"cshtml"},
	"redis":            {"redis"},
	"restructuredtext": {"rst"},
	"ruby":             {"rb", "rbx", "rjs", "gemspec"},
	"rust":             {"rs", "rlib"},
	"sb":               {"sb"},
	"scala":            {"scala", "sc", "sbt"},
	"scheme":           {"scm", "ss", "sch", "rkt"},
	"scss":             {"scss"},
	"shell":            {"sh", "bash", "zsh"},
	"sol":              {"sol"},
	"sparql":           {"rq"},
	"sql":              {"sql"},
	"st":               {"st", "iecst", "iecplc", "lc3lib"},
	"swift":            {"swift"},
	"systemverilog":    {"sv", "svh"},
	"tcl":              {"tcl"},
	"twig":             {"twig"},
	"typescript":       {"ts", "tsx", "cts", "mts"},
	"vb":               {"vb"},
	"verilog":          {"v", "vh"},
	"wgsl":             {"wgsl"},
	"xml":              {"xml", "xsd", "dtd", "ascx", "csproj", "config", "props", "targets", "wxi", "wxl", "wxs", "xaml", "svgz", "opf", "xslt", "xsl"},
	"yaml":             {"yaml", "yml"},
}

// DefaultTags returns a copy of the built-in language table.
func DefaultTags() map[string][]string {
	out := make(map[string][]string, len(defaultTags))
	for lang, tags := range defaultTags {
		out[lang] = append([]string(nil), tags...)
	}
	return out
}
