package telegram

const (
	sessionPrefix = "telegram_"
	maxMessageLen = 4096
	msgWelcome    = "👋 欢迎使用「赛博华佗」！\n\n直接描述您的症状或问题即可，我还可以：\n• 联网搜索最新资讯\n• 生成图片、视频与语音\n• 制作 PPT 和 Word 文档\n\n发送 /reset 清空对话记录。"
	msgHelp       = "使用方法：\n\n直接输入问题，例如「最近总是头疼怎么办」或「用粤语女声介绍一下流感」。\n\n/reset 清空对话记录\n/help 查看帮助"
	msgResetDone  = "对话记录已清空。"
	msgProcessing = "⏳ 正在思考..."
	msgFailed     = "抱歉，处理您的请求时出错，请稍后再试。"
	mediaVideo    = "视频"
	mediaAudio    = "audio"
	commandStart  = "/start"
	commandHelp   = "/help"
	commandReset  = "/reset"
)
