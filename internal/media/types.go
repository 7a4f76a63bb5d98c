package media

// Voice table values returned by the language and gender extraction prompts.
const (
	LangNone      = "无"
	LangMandarin  = "普通话"
	LangShaanxi   = "陕西话"
	LangNortheast = "东北话"
	LangCantonese = "粤语"
	LangTaiwanese = "台湾话"

	GenderNone   = "无"
	GenderMale   = "男声"
	GenderFemale = "女声"
)

// DefaultVoice is the Mandarin male voice used when nothing else matches.
const DefaultVoice = "zh-CN-YunxiNeural"

type voiceKey struct {
	lang   string
	gender string
}

var voices = map[voiceKey]string{
	{LangNone, GenderNone}:        DefaultVoice,
	{LangNone, GenderMale}:        DefaultVoice,
	{LangNone, GenderFemale}:      "zh-CN-XiaoxiaoNeural",
	{LangMandarin, GenderNone}:    DefaultVoice,
	{LangMandarin, GenderMale}:    DefaultVoice,
	{LangMandarin, GenderFemale}:  "zh-CN-XiaoxiaoNeural",
	{LangShaanxi, GenderFemale}:   "zh-CN-shaanxi-XiaoniNeural",
	{LangShaanxi, GenderNone}:     "zh-CN-shaanxi-XiaoniNeural",
	{LangNortheast, GenderFemale}: "zh-CN-liaoning-XiaobeiNeural",
	{LangNortheast, GenderNone}:   "zh-CN-liaoning-XiaobeiNeural",
	{LangCantonese, GenderFemale}: "zh-HK-HiuMaanNeural",
	{LangCantonese, GenderMale}:   "zh-HK-WanLungNeural",
	{LangCantonese, GenderNone}:   "zh-HK-WanLungNeural",
	{LangTaiwanese, GenderMale}:   "zh-TW-YunJheNeural",
	{LangTaiwanese, GenderFemale}: "zh-TW-HsiaoChenNeural",
	{LangTaiwanese, GenderNone}:   "zh-TW-HsiaoChenNeural",
}

// SelectVoice maps an extracted dialect and gender to a TTS voice. ok is false
// when the combination has no voice; DefaultVoice is returned then.
func SelectVoice(lang, gender string) (voice string, ok bool) {
	if v, found := voices[voiceKey{lang, gender}]; found {
		return v, true
	}
	return DefaultVoice, false
}
