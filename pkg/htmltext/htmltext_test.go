package htmltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	page := `<html><head><title>糖尿病饮食</title><style>p{color:red}</style></head>
<body>
  <script>var x = "ignored";</script>
  <h1>糖尿病饮食指南</h1>
  <p>少吃   高糖食物。</p><p>多吃蔬菜。</p>
  <ul><li>控制体重</li><li>规律运动</li></ul>
</body></html>`

	text, err := Extract(strings.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, "糖尿病饮食指南\n少吃 高糖食物。\n多吃蔬菜。\n控制体重\n规律运动", text)
	assert.NotContains(t, text, "ignored")
	assert.NotContains(t, text, "color")
}

func TestExtractFragment(t *testing.T) {
	text, err := Extract(strings.NewReader("纯文本 内容"))
	require.NoError(t, err)
	assert.Equal(t, "纯文本 内容", text)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "高血压", Title(strings.NewReader("<html><head><title> 高血压 </title></head></html>")))
	assert.Equal(t, "", Title(strings.NewReader("<p>no title</p>")))
}
