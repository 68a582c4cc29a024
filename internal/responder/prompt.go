// internal/responder/prompt.go
package responder

const (
	chineseInstruction = "请直接用中文回答下面的问题，不要给出推理过程或中间步骤。"
	englishInstruction = "IMPORTANT: Provide ONLY the final answer to the following question, " +
		"without any explanation or reasoning steps."
)

// hasChinese reports whether the text contains any CJK Unified Ideographs.
func hasChinese(text string) bool {
	for _, r := range text {
		if r >= 0x4e00 && r <= 0x9fff {
			return true
		}
	}
	return false
}

// BuildPrompt assembles the user-facing prompt. Cases written in Chinese get
// a short Chinese instruction so the model answers in the patient's language;
// everything else gets the fixed English final-answer-only instruction.
func BuildPrompt(narrative, coreRequest string) string {
	combined := narrative + "\n\n" + coreRequest

	instruction := englishInstruction
	if hasChinese(combined) {
		instruction = chineseInstruction
	}

	return instruction + "\n\n" + narrative + "\n\n" + coreRequest
}
