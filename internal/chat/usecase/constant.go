package usecase

const (
	defaultMaxTurns = 20

	promptUnsupportedFile = "请你将下面的句子修饰后输出，不要包含额外的文字，句子:'该文件为不支持的文件类型'"

	promptAudioFailed = "请你将下面的句子修饰后输出，不要包含额外的文字，句子:'音频识别失败，请稍后再试'"
	promptNoMusic     = "请你将下面的句子修饰后输出，不要包含额外的文字，句子:'不好意思，我无法理解音乐'"
	musicKeyword      = "作曲"

	attachmentAudio = "音频%d内容：%s"
	attachmentPDF   = "PDF%d内容：%s"
	attachmentDocx  = "DOCX%d内容：%s"
	attachmentText  = "文本%d内容：%s"

	searchFailedPrefix = "由于网络问题，访问互联网失败，下面由我根据现有知识给出回答："
	searchLinksPrefix  = "参考资料："

	describeGenerated = "描述这个图片，不要识别‘AI生成’"

	apologyVideo = "抱歉，视频生成失败，请稍后再试"
	apologyPPT   = "抱歉，PPT生成失败，请稍后再试"
	apologyDocx  = "抱歉，文档生成失败，请稍后再试"
	apologyAudio = "抱歉，音频生成失败，请稍后再试"
	apologyImage = "抱歉，图片生成失败，请稍后再试"

	maxAttachmentBytes = 1 << 20
)
