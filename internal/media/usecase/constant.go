package usecase

import "time"

const (
	defaultPollInterval = 2 * time.Second
	defaultVideoTimeout = 120 * time.Second

	promptExtractorRole   = "你现在扮演信息抽取的角色，要求根据用户输入和AI的回答，正确提取出信息，无需包含提示文字"
	promptExtractorStrict = "你现在扮演信息抽取的角色，要求根据用户输入和AI的回答，正确提取出信息，不要复述，无需包含提示文字"

	promptSpeechText = "请从上述对话中帮我提取出即将要转成语音的文本，不要包含提示文字"

	promptSpeechLanguage = `请从如下文本中提取出文本转语音的语种，提取结果只有5种可能（普通话，陕西话，东北话，粤语，台湾话），
如果文本中有语种信息，但不是以上5种，如英语、日语...则直接返回一个词：其他，
如果如下文本不包含语种信息，直接返回一个字：无。
（注意：结果中不要包含任何符号和提示信息）：
%s`

	promptSpeechGender = "请从如下文本中提取出文本转语音的声音性别，提取的结果只有两种可能，男声和女声，如果如下文本不包含声音性别，" +
		"直接返回一个字：无。（注意：结果中不要包含任何符号和提示信息）：\n%s"

	// MissingVoicePrefix is spoken before the text when the requested dialect
	// has no voice.
	MissingVoicePrefix = "由于目标语言包缺失，我将用普通话回复您。"

	describeDefault = "描述这个图片，说明这个图片的主要内容"
)
