// Package chatcmder provides the chat command for an interactive session
// against a running hindsight API server.
package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/hindsight/api"
	"github.com/papercomputeco/hindsight/pkg/cliui"
	"github.com/papercomputeco/hindsight/pkg/config"
	"github.com/papercomputeco/hindsight/pkg/dotdir"
	"github.com/papercomputeco/hindsight/pkg/evidence"
	"github.com/papercomputeco/hindsight/pkg/llm"
	"github.com/papercomputeco/hindsight/pkg/logger"
	"github.com/papercomputeco/hindsight/pkg/orchestrator"
)

var (
	operatorPrompt  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	hindsightPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("hindsight>")
)

// sessionEvidenceWindow caps how many trailing session messages are
// re-presented as evidence each turn.
const sessionEvidenceWindow = 4

type chatCommander struct {
	apiTarget string
	topK      int
	debug     bool

	logger *zap.Logger
}

var chatFlags = config.FlagSet{
	config.FlagAPITarget: {Name: "api-target", Shorthand: "a", ViperKey: "api.target", Description: "Hindsight API server URL"},
}

var chatFlagKeys = []string{config.FlagAPITarget}

const chatLongDesc string = `Start an interactive session against a running hindsight API server.

Each message is answered with generation conditioned on evidence: the
server's evidence store is searched for passages related to your message,
recent turns of this session are carried along, and the combined context
drives the response.

The conversation persists in .hindsight/session.json between invocations,
so a later "hindsight chat" resumes where you left off. Use /clear inside
the session to start over, /exit or Ctrl+D to quit.

Examples:
  hindsight chat
  hindsight chat --api-target http://localhost:8081
  hindsight chat --top-k 10`

const chatShortDesc string = "Interactive session against a running API server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, err := cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, chatFlags, chatFlagKeys)

			cmder.apiTarget = v.GetString("api.target")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, chatFlags, config.FlagAPITarget, &cmder.apiTarget)
	cmd.Flags().IntVarP(&cmder.topK, "top-k", "k", evidence.DefaultTopK, "Evidence passages retrieved per message")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	dotdirManager := dotdir.NewManager()
	state, err := dotdirManager.LoadSession("")
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	var messages []dotdir.SessionMessage
	fmt.Println()
	if state != nil && len(state.Messages) > 0 {
		messages = state.Messages
		fmt.Printf("  %s Resuming session %s\n",
			cliui.SuccessMark,
			cliui.DimStyle.Render(fmt.Sprintf("(%d messages)", len(messages))),
		)
	} else {
		fmt.Printf("  %s New session\n", cliui.DimStyle.Render("●"))
	}

	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Target:"),
		cliui.NameStyle.Render(c.apiTarget),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /clear starts over, /exit or Ctrl+D quits."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(operatorPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}
		if input == "/clear" {
			if err := dotdirManager.ClearSession(""); err != nil {
				fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
				continue
			}
			messages = nil
			fmt.Printf("\n  %s Session cleared\n\n", cliui.SuccessMark)
			continue
		}

		passages := c.gatherEvidence(ctx, input)
		passages = append(passages, sessionEvidence(messages)...)

		result, err := c.generate(ctx, input, passages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Println()
		fmt.Println(hindsightPrompt)
		rendered, err := cliui.RenderMarkdown(result.Text)
		if err != nil {
			rendered = result.Text + "\n"
		}
		fmt.Print(rendered)
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("entropy %.3f", result.Entropy)))

		messages = append(messages,
			dotdir.SessionMessage{Role: llm.RoleUser, Content: input},
			dotdir.SessionMessage{Role: llm.RoleAssistant, Content: result.Text},
		)
		if err := dotdirManager.SaveSession(&dotdir.SessionState{Messages: messages}, ""); err != nil {
			c.logger.Warn("session save failed", zap.Error(err))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// gatherEvidence searches the server's evidence store for passages related
// to the message. Retrieval failures degrade to generation without stored
// context rather than killing the turn.
func (c *chatCommander) gatherEvidence(ctx context.Context, query string) []string {
	endpoint := fmt.Sprintf("%s/evidence/search?q=%s&top_k=%d", c.apiTarget, url.QueryEscape(query), c.topK)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("building search request", zap.Error(err))
		return nil
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		c.logger.Warn("evidence search failed, continuing without retrieval", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("evidence search failed, continuing without retrieval",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil
	}

	var search api.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		c.logger.Warn("decoding search response", zap.Error(err))
		return nil
	}

	passages := make([]string, 0, len(search.Results))
	for _, result := range search.Results {
		passages = append(passages, result.Text)
	}

	c.logger.Debug("gathered evidence", zap.Int("count", len(passages)))
	return passages
}

// generate posts the prompt with its evidence to the server and returns the
// generation result.
func (c *chatCommander) generate(ctx context.Context, prompt string, passages []string) (*orchestrator.Result, error) {
	body, err := json.Marshal(orchestrator.Request{Prompt: prompt, Evidence: passages})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	c.logger.Debug("sending generate request",
		zap.String("api_target", c.apiTarget),
		zap.Int("evidence_count", len(passages)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiTarget+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		// Generation can chain several model and tool calls
		Timeout: 5 * time.Minute,
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	result := &orchestrator.Result{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return result, nil
}

// sessionEvidence re-presents the trailing session turns as evidence entries
// so the stateless generate endpoint sees recent conversation.
func sessionEvidence(messages []dotdir.SessionMessage) []string {
	start := 0
	if len(messages) > sessionEvidenceWindow {
		start = len(messages) - sessionEvidenceWindow
	}

	entries := make([]string, 0, len(messages)-start)
	for _, msg := range messages[start:] {
		switch msg.Role {
		case llm.RoleAssistant:
			entries = append(entries, "You said earlier: "+msg.Content)
		default:
			entries = append(entries, "The operator said earlier: "+msg.Content)
		}
	}
	return entries
}
