package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
}

func TestLexical(t *testing.T) {
	assert.Equal(t, 1.0, Lexical("糖尿病", "预防糖尿病的方法"))
	assert.Equal(t, 0.0, Lexical("糖尿病", "高血压"))
	assert.InDelta(t, 0.5, Lexical("糖尿病", "尿病"), 1e-9)
	assert.Equal(t, 0.0, Lexical("", "任何文本"))
	assert.Equal(t, 1.0, Lexical("糖", "糖"))
}
