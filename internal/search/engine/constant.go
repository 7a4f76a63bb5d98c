package engine

// Log prefixes
const (
	LogPrefixSearch  = "search.SearchAndAnswer"
	LogPrefixWorker  = "search.worker"
	LogPrefixRewrite = "search.rewriteQuery"
)

// Engine names
const (
	EngineBing  = "bing"
	EngineBaidu = "baidu"
)

// Prompts
const (
	promptRewriteSystem      = "你现在扮演信息抽取的角色，要求根据用户输入和AI的回答，正确提取出信息，无需包含提示文字"
	promptRewriteUserFormat  = "用户提问：%s"
	promptRewriteInstruction = "请根据用户的提问，提取出一个可以在搜索引擎上搜索的问题（不要有多余的内容）"

	promptAnswerWithContext = "根据你现有的知识，辅助以搜索到的文件资料：\n%s\n 回答问题：\n%s\n 尽可能多的覆盖到文件资料"
)

// Result page selectors
const (
	bingEntrySelector  = "li.b_algo"
	bingTitleSelector  = "h2"
	baiduEntrySelector = "div.result"
	baiduTitleSelector = "h3"
	linkSelector       = "a"
)

// Defaults
const (
	defaultResultsPerEngine = 3
	defaultUserAgent        = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:22.0) Gecko/20100101 Firefox/22.0"
	defaultBaiduURL         = "https://www.baidu.com/s?wd="

	maxPageBytes  = 5 << 20
	maxTitleRunes = 80
	pageExt       = ".html"
)

var defaultBingURLs = []string{
	"https://cn.bing.com/search?q=",
	"https://www.bing.com/search?q=",
}

// Request headers sent to search engines and result pages.
var browserHeaders = map[string]string{
	"Accept":        "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Cache-Control": "max-age=0",
}
