package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

// passageExcerptLength is the number of characters shown per related passage.
const passageExcerptLength = 500

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the corpus",
	Long: `Routes a question through triage and, for specific questions, answers it
from the indexed passages.

With no arguments, questions are read from standard input one per line
until EOF or "sair".`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full routing state as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return unavailable("assistant service")
	}

	if len(args) > 0 {
		return askOnce(cmd, strings.Join(args, " "))
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if !askJSON {
			cmd.Print("> ")
		}
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "sair") {
			break
		}
		if err := askOnce(cmd, question); err != nil {
			return err
		}
		cmd.Println()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read question: %w", err)
	}
	return nil
}

func askOnce(cmd *cobra.Command, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	state := assistantService.AnswerQuery(commandContext(cmd), question)

	if askJSON {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	writeAnswer(cmd.OutOrStdout(), state)
	return nil
}

// writeAnswer prints the answer, the routing summary and the related passages.
func writeAnswer(w io.Writer, state domain.AgentState) {
	st := stylesFor(w)

	fmt.Fprintln(w, st.render(st.title, "Resposta"))
	fmt.Fprintln(w, state.Answer)
	fmt.Fprintln(w)

	action := st.render(st.warning, state.FinalAction.String())
	if state.Grounded {
		action = st.render(st.success, state.FinalAction.String())
	}
	fmt.Fprintf(w, "%s %s  %s %s  %s %s\n",
		st.render(st.label, "Decisão:"), state.Triage.Decision,
		st.render(st.label, "Urgência:"), state.Triage.Urgency,
		st.render(st.label, "Ação final:"), action)
	if len(state.Triage.MissingFields) > 0 {
		fmt.Fprintf(w, "%s %s\n",
			st.render(st.label, "Informações faltantes:"), strings.Join(state.Triage.MissingFields, ", "))
	}

	if len(state.Citations) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.render(st.title, "Trechos relacionados"))
	for i, p := range state.Citations {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.render(st.label, fmt.Sprintf("Trecho %d - Página %d", i+1, p.Page)))
		body := excerpt(strings.TrimSpace(p.Content), passageExcerptLength) + "\n" +
			st.render(st.muted, "Fonte: "+p.Source)
		fmt.Fprintln(w, st.render(st.passage, body))
	}
}

// excerpt returns the first n characters of s, marking truncation.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
