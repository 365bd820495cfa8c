// internal/cli/input.go
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"golang.org/x/term"
)

// Choice 為選單中的一個選項；使用者可輸入 Key 或 Text。
type Choice struct {
	Key  string
	Text string
}

// Input 為終端機輸入來源。讀取失敗（例如輸入結束）時回傳錯誤，Operator 會就此結束。
type Input interface {
	Line(label string) (string, error)
	Select(label string, choices []Choice) (string, error)
	Secret(label string) (string, error)
}

// PromptInput 以 go-prompt 讀取一般輸入，以 x/term 讀取不回顯的 PIN。
type PromptInput struct {
	out io.Writer
	fd  int
}

func NewPromptInput(out io.Writer) *PromptInput {
	return &PromptInput{out: out, fd: int(os.Stdin.Fd())}
}

func (p *PromptInput) Line(label string) (string, error) {
	return read(fmt.Sprintf("{%s}>>> ", label), emptyCompleter, styleOptions()...)
}

func (p *PromptInput) Select(label string, choices []Choice) (string, error) {
	suggestions := make([]prompt.Suggest, len(choices))
	for i, c := range choices {
		suggestions[i] = prompt.Suggest{Text: c.Key, Description: c.Text}
	}
	completer := func(d prompt.Document) []prompt.Suggest {
		if len(strings.Fields(d.TextBeforeCursor())) > 1 {
			return []prompt.Suggest{}
		}
		return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
	}
	return read(fmt.Sprintf("{%s}>>> ", label), completer,
		append(styleOptions(), prompt.OptionShowCompletionAtStart())...)
}

// read 呼叫 prompt.Input。空白行按 Enter 與 Ctrl-D 都回傳 ""；
// Enter 會觸發自訂按鍵綁定，Ctrl-D 在空白行時不會，以此區分。
func read(prefix string, completer prompt.Completer, opts ...prompt.Option) (string, error) {
	submitted := false
	mark := func(*prompt.Buffer) { submitted = true }
	for _, k := range []prompt.Key{prompt.Enter, prompt.ControlJ, prompt.ControlM} {
		opts = append(opts, prompt.OptionAddKeyBind(prompt.KeyBind{Key: k, Fn: mark}))
	}
	return inputResult(prompt.Input(prefix, completer, opts...), submitted)
}

// inputResult 將未經 Enter 送出的空白輸入視為輸入結束。
func inputResult(s string, submitted bool) (string, error) {
	if s == "" && !submitted {
		return "", io.EOF
	}
	return s, nil
}

func (p *PromptInput) Secret(label string) (string, error) {
	fmt.Fprintf(p.out, "{%s}>>> ", label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return string(b), nil
}

// Restore 將終端機還原為啟動時的狀態；go-prompt 結束後可能留下 raw mode。
func (p *PromptInput) Restore() func() {
	state, err := term.GetState(p.fd)
	return func() {
		if err == nil {
			_ = term.Restore(p.fd, state)
		}
	}
}

func emptyCompleter(prompt.Document) []prompt.Suggest {
	return []prompt.Suggest{}
}

func styleOptions() []prompt.Option {
	return []prompt.Option{
		prompt.OptionTitle("CASHIT"),
		prompt.OptionPrefixTextColor(prompt.Yellow),
		prompt.OptionPreviewSuggestionTextColor(prompt.Cyan),
		prompt.OptionSuggestionTextColor(prompt.White),
		prompt.OptionSuggestionBGColor(prompt.DarkBlue),
		prompt.OptionDescriptionTextColor(prompt.Black),
		prompt.OptionDescriptionBGColor(prompt.Yellow),
		prompt.OptionSelectedSuggestionTextColor(prompt.Black),
		prompt.OptionSelectedSuggestionBGColor(prompt.Yellow),
		prompt.OptionSelectedDescriptionTextColor(prompt.White),
		prompt.OptionSelectedDescriptionBGColor(prompt.DarkBlue),
	}
}
