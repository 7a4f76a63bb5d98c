package usecase

const (
	defaultRAGTopK = 6

	promptRAG = "请根据搜索到的文件信息\n%s\n 回答问题：\n%s"

	promptKnowledgeGraph = "%s\n从知识图谱中检索到的信息如下%s\n请你基于知识图谱的信息去回答,并给出知识图谱检索到的信息"
)
