package repl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fantasy/internal/cli/command"
	"fantasy/internal/cli/config"
	httpclient "fantasy/internal/cli/http"
	"fantasy/internal/cli/state"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

const prompt = "fantasy> "

// LineReader is the subset of *readline.Instance the session needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Session holds REPL state.
type Session struct {
	client     *httpclient.Client
	commands   map[string]command.Command
	state      *state.State
	statePath  string
	prettyJSON bool
	reader     LineReader
	out        io.Writer
	lists      map[string]list
}

func New(client *httpclient.Client, commands map[string]command.Command, st *state.State, statePath string, prettyJSON bool, reader LineReader, out io.Writer) *Session {
	s := &Session{
		client:     client,
		commands:   commands,
		state:      st,
		statePath:  statePath,
		prettyJSON: prettyJSON,
		reader:     reader,
		out:        out,
	}
	s.lists = map[string]list{
		"countries": newList(s, "countries", "/api/countries", formatCountry),
		"teams":     newList(s, "teams", "/api/teams", formatTeam),
	}
	return s
}

// NewReadline builds the interactive line reader with history and completion.
func NewReadline(historyFile string, commands map[string]command.Command) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    completer(commands),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

func completer(commands map[string]command.Command) *readline.PrefixCompleter {
	actions := map[string][]readline.PrefixCompleterInterface{}
	for _, key := range command.Keys(commands) {
		parts := strings.SplitN(key, " ", 2)
		actions[parts[0]] = append(actions[parts[0]], readline.PcItem(parts[1]))
	}
	var items []readline.PrefixCompleterInterface
	for _, service := range []string{"countries", "teams"} {
		children := append(actions[service],
			readline.PcItem("list"), readline.PcItem("page"), readline.PcItem("size"),
			readline.PcItem("filter"), readline.PcItem("delete"))
		items = append(items, readline.PcItem(service, children...))
	}
	items = append(items,
		readline.PcItem("help"), readline.PcItem("exit"),
		readline.PcItem("set", readline.PcItem("base"), readline.PcItem("timeout")),
		readline.PcItem("show", readline.PcItem("config")),
	)
	return readline.NewPrefixCompleter(items...)
}

// Run reads commands until exit or end of input.
func (s *Session) Run(ctx context.Context) {
	for {
		s.reader.SetPrompt(prompt)
		line, err := s.reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return
			}
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.printLine("read input failed: %v", err)
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			s.printLine("bye")
			return
		}
		if err := s.Execute(ctx, line); err != nil {
			s.printLine("error: %v", err)
		}
	}
}

// Execute runs a single console line.
func (s *Session) Execute(ctx context.Context, line string) error {
	if s.handleSystemCommand(line) {
		return nil
	}
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) < 2 {
		return fmt.Errorf("invalid command, use: <countries|teams> <action> key=value ...")
	}
	service, action := tokens[0], tokens[1]
	if l, ok := s.lists[service]; ok {
		handled, err := s.handleListCommand(ctx, l, action, tokens[2:])
		if handled {
			return err
		}
	}
	return s.handleCommand(ctx, service, action, tokens[2:])
}

func (s *Session) handleSystemCommand(line string) bool {
	switch line {
	case "help":
		s.printHelp()
		return true
	}
	if strings.HasPrefix(line, "set ") {
		s.handleSet(strings.TrimSpace(strings.TrimPrefix(line, "set ")))
		return true
	}
	if strings.HasPrefix(line, "show ") {
		s.handleShow(strings.TrimSpace(strings.TrimPrefix(line, "show ")))
		return true
	}
	return false
}

func (s *Session) handleSet(args string) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		s.printLine("usage: set base|timeout")
		return
	}
	switch parts[0] {
	case "base":
		if len(parts) < 2 {
			s.printLine("usage: set base http://127.0.0.1:8080")
			return
		}
		if err := config.ValidateBaseURL(parts[1]); err != nil {
			s.printLine("%v", err)
			return
		}
		s.client.SetBaseURL(parts[1])
		s.state.BaseURL = parts[1]
		s.saveState()
		s.printLine("base set to %s", parts[1])
	case "timeout":
		if len(parts) < 2 {
			s.printLine("usage: set timeout 10s")
			return
		}
		dur, err := time.ParseDuration(parts[1])
		if err != nil {
			s.printLine("invalid duration: %v", err)
			return
		}
		s.client.SetTimeout(dur)
		s.printLine("timeout set to %s", dur)
	default:
		s.printLine("unknown set command")
	}
}

func (s *Session) handleShow(args string) {
	switch args {
	case "config":
		s.printLine("base: %s", s.client.BaseURL())
		s.printLine("timeout: %s", s.client.Timeout())
		s.printLine("statePath: %s", s.statePath)
	default:
		s.printLine("usage: show config")
	}
}

func (s *Session) handleCommand(ctx context.Context, service, action string, args []string) error {
	cmd, ok := s.commands[service+" "+action]
	if !ok {
		return fmt.Errorf("unknown command: %s %s", service, action)
	}
	params, err := command.ParseTokens(args)
	if err != nil {
		return err
	}
	params.Canonicalize(cmd.Fields)
	if err := s.promptMissing(&cmd, params); err != nil {
		return err
	}
	req, err := command.BuildRequest(cmd, params)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(ctx, req.Method, req.Path, req.Headers, req.Body)
	if err != nil {
		return err
	}
	s.renderResponse(resp)

	// create and update play the role of a closed edit dialog
	if cmd.Method != "GET" {
		if l, ok := s.lists[service]; ok && l.loaded() {
			if err := l.afterModalClose(ctx); err != nil {
				return err
			}
			l.render()
		}
	}
	return nil
}

func (s *Session) promptMissing(cmd *command.Command, params command.Params) error {
	for _, field := range cmd.Fields {
		if !field.Required {
			continue
		}
		if params.Get(field.Name) != "" {
			continue
		}
		value, err := s.promptValue(field.Prompt)
		if err != nil {
			return err
		}
		params.Set(field.Name, value)
	}
	return nil
}

func (s *Session) promptValue(label string) (string, error) {
	s.reader.SetPrompt(label + ": ")
	defer s.reader.SetPrompt(prompt)
	line, err := s.reader.Readline()
	if err != nil {
		return "", fmt.Errorf("read input failed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) confirm(question string) bool {
	answer, err := s.promptValue(question + " [y/N]")
	if err != nil {
		return false
	}
	ok, err := command.ParseBool(answer)
	return err == nil && ok
}

func (s *Session) renderResponse(resp httpclient.ResponseInfo) {
	s.printLine("HTTP %d (%s)", resp.StatusCode, resp.Duration)
	if len(resp.Body) == 0 {
		return
	}
	if s.prettyJSON {
		var raw interface{}
		if err := json.Unmarshal(resp.Body, &raw); err == nil {
			formatted, _ := json.MarshalIndent(raw, "", "  ")
			s.printLine("%s", string(formatted))
			return
		}
	}
	s.printLine("%s", string(resp.Body))
}

func (s *Session) saveState() {
	if s.statePath == "" {
		return
	}
	if err := state.Save(s.statePath, *s.state); err != nil {
		s.printLine("save state failed: %v", err)
	}
}

func (s *Session) printHelp() {
	s.printLine("usage: <countries|teams> <action> key=value ...")
	s.printLine("lists:  <service> list | page <n> | size <10|25|50|all> | filter [text] | delete <id>")
	s.printLine("system: help | exit | set base|timeout | show config")
	s.printLine("requests:")
	for _, key := range command.Keys(s.commands) {
		s.printLine("  %s", key)
	}
	s.printLine("examples:")
	s.printLine("  countries filter arg")
	s.printLine("  countries create name=\"Costa Rica\"")
	s.printLine("  teams create name=\"River Plate\" countryId=7 image=./river.png square=true")
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}
