package usecase

const (
	logPrefix = "content.Generate"

	outlineSuffix = "}]}]}"

	promptExtractor = "你现在扮演信息抽取的角色，要求根据用户输入和AI的回答，正确提取出信息。"

	promptPPTFormat  = `请你根据用户要求生成ppt的详细内容，不要省略。按这个JSON格式输出` + pptExample + `，只能返回JSON，且JSON不要用` + "```" + `包裹，不要返回markdown格式`
	promptDocxFormat = `请你根据用户要求生成docx的详细内容，不要省略。按这个JSON格式输出` + docxExample + `，只能返回JSON，且JSON不要用` + "```" + `包裹，不要返回markdown格式`

	pptExample = `{"title": "example title", "pages": [{"title": "title for page 1", "content": [{"title": "title for paragraph 1", "description": "detail for paragraph 1"}, {"title": "title for paragraph 2", "description": "detail for paragraph 2"}]}, {"title": "title for page 2", "content": [{"title": "title for paragraph 1", "description": "detail for paragraph 1"}, {"title": "title for paragraph 2", "description": "detail for paragraph 2"}, {"title": "title for paragraph 3", "description": "detail for paragraph 3"}]}]}`

	docxExample = `{"title": "example title", "sections": [{"heading": "Section 1", "paragraphs": [{"heading": "Paragraph 1", "content": "Details of paragraph 1"}, {"heading": "Paragraph 2", "content": "Details of paragraph 2"}]}, {"heading": "Section 2", "paragraphs": [{"heading": "Paragraph 1", "content": "Details of paragraph 1"}, {"heading": "Paragraph 2", "content": "Details of paragraph 2"}, {"heading": "Paragraph 3", "content": "Details of paragraph 3"}]}]}`
)

const pptSchema = `{
  "type": "object",
  "required": ["title", "pages"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "pages": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title", "content"],
        "properties": {
          "title": {"type": "string"},
          "content": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title", "description"],
              "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

const docxSchema = `{
  "type": "object",
  "required": ["title", "sections"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "sections": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["heading", "paragraphs"],
        "properties": {
          "heading": {"type": "string"},
          "paragraphs": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["heading", "content"],
              "properties": {
                "heading": {"type": "string"},
                "content": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`
