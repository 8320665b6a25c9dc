package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nickyhof/MyDB/db"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

const maxHistory = 1000

// CLI holds the shell state
type CLI struct {
	engine      *db.Engine
	in          io.Reader
	out         io.Writer
	interactive bool // prompts and colors
	history     []string
	historyFile string
}

func NewCLI(engine *db.Engine, in io.Reader, out io.Writer, interactive bool) *CLI {
	return &CLI{
		engine:      engine,
		in:          in,
		out:         out,
		interactive: interactive,
		history:     make([]string, 0),
	}
}

func (cli *CLI) paint(color, s string) string {
	if !cli.interactive {
		return s
	}
	return color + s + ResetColor
}

func (cli *CLI) errorf(format string, args ...any) {
	fmt.Fprintln(cli.out, cli.paint(ErrorColor, "✗ "+fmt.Sprintf(format, args...)))
}

func (cli *CLI) successf(format string, args ...any) {
	fmt.Fprintln(cli.out, cli.paint(SuccessColor, "✓ "+fmt.Sprintf(format, args...)))
}

func (cli *CLI) printBanner(storage string) {
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("MyDB v%s", Version)
	padding := bannerWidth - len(versionLine) - 2
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Fprintln(cli.out)
	fmt.Fprintln(cli.out, cli.paint(BoldColor+PromptColor, "╔═══════════════════════════════════════╗"))
	fmt.Fprintln(cli.out, cli.paint(BoldColor+PromptColor, fmt.Sprintf("║ %*s%s%*s ║", leftPad, "", versionLine, rightPad, "")))
	fmt.Fprintln(cli.out, cli.paint(BoldColor+PromptColor, "║   Typed tables in versioned files     ║"))
	fmt.Fprintln(cli.out, cli.paint(BoldColor+PromptColor, "╚═══════════════════════════════════════╝"))
	fmt.Fprintln(cli.out)
	fmt.Fprintf(cli.out, "Using %s storage\n", storage)
	fmt.Fprintln(cli.out, "Type .help for commands, .quit to exit")
	fmt.Fprintln(cli.out)
}

// run reads statements until EOF or .quit. A statement may span lines
// and ends at an unquoted ';'. Input left over at EOF runs as a final
// statement.
func (cli *CLI) run() {
	reader := bufio.NewReader(cli.in)
	var buffer strings.Builder

	for {
		if cli.interactive {
			fmt.Fprint(cli.out, cli.getPrompt(buffer.Len() > 0))
		}

		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			if rest := strings.TrimSpace(buffer.String()); rest != "" {
				cli.executeAll(rest)
			}
			if cli.interactive {
				fmt.Fprintf(cli.out, "\n%s\n", cli.paint(SuccessColor, "Goodbye!"))
			}
			return
		}

		input = strings.TrimRight(input, "\r\n")
		if strings.TrimSpace(input) == "" {
			continue
		}

		if buffer.Len() == 0 && strings.HasPrefix(strings.TrimSpace(input), ".") {
			if quit := cli.handleCommand(input); quit {
				return
			}
			continue
		}

		buffer.WriteString(input)
		if !statementComplete(buffer.String()) {
			buffer.WriteString("\n")
			continue
		}

		text := buffer.String()
		buffer.Reset()
		cli.addToHistory(strings.Join(strings.Fields(text), " "))
		cli.executeAll(text)
	}
}

func (cli *CLI) executeAll(text string) {
	for _, statement := range splitStatements(text) {
		cli.execute(statement)
	}
}

func (cli *CLI) execute(statement string) {
	result, err := cli.engine.Execute(statement)
	if err != nil {
		cli.errorf("%s: %v", db.ErrorKind(err), err)
		return
	}
	result.Display(cli.out)
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return cli.paint(PromptColor, "   ...>") + " "
	}

	dbPart := ""
	if name := cli.engine.CurrentDatabase(); name != "" {
		dbPart = fmt.Sprintf(" (%s)", name)
	}

	return cli.paint(PromptColor, "mydb"+dbPart+">") + " "
}

// handleCommand runs a dot command and reports whether the shell should
// exit.
func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return false
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		if cli.interactive {
			fmt.Fprintln(cli.out, cli.paint(SuccessColor, "Goodbye!"))
		}
		return true

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".databases", ".dbs":
		cli.execute("SHOW DATABASES")

	case ".tables":
		cli.execute("SHOW TABLES")

	case ".use":
		if len(parts) != 2 {
			cli.errorf("Usage: .use <database>")
			break
		}
		cli.execute("USE " + parts[1])

	case ".log":
		name := cli.engine.CurrentDatabase()
		if len(parts) > 1 {
			name = parts[1]
		}
		if name == "" {
			cli.errorf("Usage: .log <database>")
			break
		}
		cli.printLog(name)

	case ".clear", ".cls":
		fmt.Fprint(cli.out, "\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Fprintf(cli.out, "MyDB version %s\n", Version)

	case ".import":
		if len(parts) != 2 {
			cli.errorf("Usage: .import <file.sql>")
			break
		}
		if err := cli.importFile(parts[1]); err != nil {
			cli.errorf("%v", err)
		}

	default:
		cli.errorf("Unknown command: %s (type .help for commands)", parts[0])
	}

	return false
}

func (cli *CLI) printHelp() {
	bold := func(s string) string { return cli.paint(BoldColor+PromptColor, s) }

	fmt.Fprintln(cli.out)
	fmt.Fprintln(cli.out, bold("Special Commands:"))
	fmt.Fprintln(cli.out, "  .help, .h        Show this help message")
	fmt.Fprintln(cli.out, "  .quit, .exit     Exit the shell")
	fmt.Fprintln(cli.out, "  .databases       List databases in the session")
	fmt.Fprintln(cli.out, "  .tables          List tables in the current database")
	fmt.Fprintln(cli.out, "  .use <db>        Select or load a database")
	fmt.Fprintln(cli.out, "  .log [db]        Show commit history of a database")
	fmt.Fprintln(cli.out, "  .import <file>   Execute SQL statements from a file")
	fmt.Fprintln(cli.out, "  .history         Show command history")
	fmt.Fprintln(cli.out, "  .clear           Clear the screen")
	fmt.Fprintln(cli.out, "  .version         Show version info")
	fmt.Fprintln(cli.out)
	fmt.Fprintln(cli.out, bold("SQL Commands:"))
	fmt.Fprintln(cli.out, "  CREATE DATABASE <name>;")
	fmt.Fprintln(cli.out, "  USE <name>;")
	fmt.Fprintln(cli.out, "  LOAD <name>;")
	fmt.Fprintln(cli.out, "  CREATE TABLE <table> (<type>)<column>, ...;")
	fmt.Fprintln(cli.out, "  INSERT INTO <table> <value> <value> ...;")
	fmt.Fprintln(cli.out, "  SELECT <cols|*> FROM <table> [WHERE <col> <op> <value>];")
	fmt.Fprintln(cli.out, "  DELETE FROM <table> WHERE <col> <op> <value>;")
	fmt.Fprintln(cli.out, "  DESCRIBE <table>;")
	fmt.Fprintln(cli.out, "  SHOW DATABASES;")
	fmt.Fprintln(cli.out, "  SHOW TABLES;")
	fmt.Fprintln(cli.out, "  COMMIT;")
	fmt.Fprintln(cli.out)
	fmt.Fprintf(cli.out, "%s int, float, string, date\n", bold("Types:"))
	fmt.Fprintf(cli.out, "%s =, <>, <, >, <=, >=\n", bold("Operators:"))
	fmt.Fprintln(cli.out)
}

func (cli *CLI) printLog(name string) {
	transactions, supported, err := cli.engine.Persistence.History(name)
	if err != nil {
		cli.errorf("%s: %v", db.ErrorKind(err), err)
		return
	}
	if !supported {
		cli.errorf("Storage keeps no history")
		return
	}
	if len(transactions) == 0 {
		fmt.Fprintf(cli.out, "No commits for %s\n", name)
		return
	}

	table := db.NewTable(cli.out)
	table.Header([]string{"Transaction", "When", "Author"})
	for _, transaction := range transactions {
		id := transaction.Id
		if len(id) > 12 {
			id = id[:12]
		}
		table.Row([]string{id, transaction.When.Format("2006-01-02 15:04:05"), transaction.Author})
	}
	table.Render()
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	if len(cli.history) > maxHistory {
		cli.history = cli.history[len(cli.history)-maxHistory:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Fprintln(cli.out, "No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Fprintf(cli.out, "  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mydb_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	start := 0
	if len(cli.history) > maxHistory {
		start = len(cli.history) - maxHistory
	}

	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}

var errImportFailed = errors.New("import failed")

// importFile executes every statement in filename and keeps going past
// failures. The returned error reports how many statements failed.
func (cli *CLI) importFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	successCount := 0
	errorCount := 0

	for i, statement := range splitStatements(string(data)) {
		result, err := cli.engine.Execute(statement)
		if err != nil {
			fmt.Fprintln(cli.out, cli.paint(ErrorColor, fmt.Sprintf("[%d] ✗ %s", i+1, truncate(statement, 50))))
			fmt.Fprintf(cli.out, "      %s: %v\n", db.ErrorKind(err), err)
			errorCount++
			continue
		}

		successCount++
		switch r := result.(type) {
		case db.CommitResult:
			fmt.Fprintln(cli.out, cli.paint(SuccessColor, fmt.Sprintf("[%d] ✓ %s (%s)", i+1, truncate(statement, 50), r.Summary())))
		case db.QueryResult:
			fmt.Fprintln(cli.out, cli.paint(SuccessColor, fmt.Sprintf("[%d] ✓ %s (%d rows)", i+1, truncate(statement, 50), r.RecordsRead)))
			r.Display(cli.out)
		default:
			fmt.Fprintln(cli.out, cli.paint(SuccessColor, fmt.Sprintf("[%d] ✓ %s", i+1, truncate(statement, 50))))
		}
	}

	fmt.Fprintln(cli.out)
	cli.successf("Import complete: %d succeeded, %d failed", successCount, errorCount)

	if errorCount > 0 {
		return fmt.Errorf("%w: %d of %d statement(s) failed", errImportFailed, errorCount, successCount+errorCount)
	}
	return nil
}

// statementComplete reports whether text ends with a ';' outside any
// quoted literal, ignoring trailing comments.
func statementComplete(text string) bool {
	quote := byte(0)
	last := byte(0)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '-' && i+1 < len(text) && text[i+1] == '-':
			for i < len(text) && text[i] != '\n' {
				i++
			}
			continue
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			continue
		}
		last = ch
	}
	return quote == 0 && last == ';'
}

// splitStatements splits SQL content into individual statements. Text
// from "--" to the end of a line is a comment.
func splitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	quote := byte(0)

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if ch == '\'' || ch == '"' {
			if quote == 0 {
				quote = ch
			} else if ch == quote {
				quote = 0
			}
		}

		if quote == 0 && ch == '-' && i+1 < len(content) && content[i+1] == '-' {
			for i < len(content) && content[i] != '\n' {
				i++
			}
			current.WriteByte(' ')
			continue
		}

		if quote == 0 && ch == ';' {
			if statement := strings.TrimSpace(current.String()); statement != "" {
				statements = append(statements, statement)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	if statement := strings.TrimSpace(current.String()); statement != "" {
		statements = append(statements, statement)
	}

	return statements
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
