package persona

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNameRequired はペルソナ名が未設定の場合のエラー
var ErrNameRequired = errors.New("persona name is required")

// SummaryInstruction は要約モジュールへの固定指示
const SummaryInstruction = "You are a conversation summarizer within 200 words.\n" +
	"Summarize the conversation history and accumulate them with given summaries.\n" +
	"Accumulated summary should contain long memories as possible.\n"

// Persona はエージェントの人格設定を表す値オブジェクト
type Persona struct {
	name      string
	identity  string
	language  string
	rules     string
	attitudes string
	examples  string
}

// NewPersona は新しいPersonaを作成
func NewPersona(name, identity, language, rules, attitudes, examples string) (Persona, error) {
	if strings.TrimSpace(name) == "" {
		return Persona{}, ErrNameRequired
	}
	if language == "" {
		language = "English"
	}
	return Persona{
		name:      name,
		identity:  identity,
		language:  language,
		rules:     rules,
		attitudes: attitudes,
		examples:  examples,
	}, nil
}

// Name は名前を返す
func (p Persona) Name() string {
	return p.name
}

// Identity は性格設定を返す
func (p Persona) Identity() string {
	return p.identity
}

// Language は応答言語を返す
func (p Persona) Language() string {
	return p.language
}

// ThoughtSystemPrompt は思考モジュール用のシステムプロンプトを構築
func (p Persona) ThoughtSystemPrompt() string {
	return fmt.Sprintf("Your name is %s. "+
		"You are a thinking module analyzing user input, making rational decisions. "+
		"Keep 'RULES'. "+
		"'RULES' are rules for how you answer, You must follow it. "+
		"RULES: %s\n", p.name, p.rules)
}

// SpeechSystemPrompt は発話モジュール用のシステムプロンプトを構築
func (p Persona) SpeechSystemPrompt() string {
	return fmt.Sprintf("Your name is %s, your personality is %s. "+
		"Answer about user input in %s language. "+
		"Keep 'RULES'. "+
		"'ATTITUDES' are rules for how you answer, You must follow it. "+
		"Refer 'EXAMPLES' when given query needs that format. "+
		"ATTITUDES: %s\n"+
		"EXAMPLES: %s\n", p.name, p.identity, p.language, p.attitudes, p.examples)
}

// SinglePrompt は思考を挟まない一段階応答用のプロンプトを構築
func (p Persona) SinglePrompt(query string) string {
	return fmt.Sprintf("Your name is %s, your personality is %s. "+
		"Answer about user input in %s. "+
		"Keep 'RULES'. "+
		"Refer 'EXAMPLES' when given query needs that format. "+
		"'RULES' are rules for how you answer, You must follow it. "+
		"'EXAMPLES' show formats of your response.\n"+
		"RULES: %s\n"+
		"EXAMPLES: %s\n"+
		"query: %s", p.name, p.identity, p.language, p.rules, p.examples, query)
}
