package sql

type Token struct {
	Type  TokenType
	Value string
}

type TokenType int

const (
	Identifier TokenType = iota
	DatabaseIdentifier
	DatabasesIdentifier
	TableIdentifier
	TablesIdentifier
	Text
	String
	Wildcard
	Comma
	ParenOpen
	ParenClose
	Equals
	NotEquals
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	Create
	Use
	Load
	Insert
	Into
	Select
	From
	Where
	Delete
	Commit
	Show
	Describe
	EOF
	Unknown
)

var tokenTypeNames = map[TokenType]string{
	Identifier:          "Identifier",
	DatabaseIdentifier:  "DATABASE",
	DatabasesIdentifier: "DATABASES",
	TableIdentifier:     "TABLE",
	TablesIdentifier:    "TABLES",
	Text:                "Text",
	String:              "String",
	Wildcard:            "*",
	Comma:               ",",
	ParenOpen:           "(",
	ParenClose:          ")",
	Equals:              "=",
	NotEquals:           "<>",
	LessThan:            "<",
	GreaterThan:         ">",
	LessThanOrEqual:     "<=",
	GreaterThanOrEqual:  ">=",
	Create:              "CREATE",
	Use:                 "USE",
	Load:                "LOAD",
	Insert:              "INSERT",
	Into:                "INTO",
	Select:              "SELECT",
	From:                "FROM",
	Where:               "WHERE",
	Delete:              "DELETE",
	Commit:              "COMMIT",
	Show:                "SHOW",
	Describe:            "DESCRIBE",
	EOF:                 "EOF",
	Unknown:             "Unknown",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

func (token Token) String() string {
	switch token.Type {
	case Identifier, Text, String, Unknown:
		return token.Type.String() + "(" + token.Value + ")"
	default:
		return token.Type.String()
	}
}

// IsKeyword reports whether the token is one of the reserved words.
func (token Token) IsKeyword() bool {
	return token.Type >= Create && token.Type <= Describe ||
		token.Type >= DatabaseIdentifier && token.Type <= TablesIdentifier
}

// IsWord reports whether the token is a bare run of characters,
// keywords included.
func (token Token) IsWord() bool {
	return token.Type == Identifier || token.IsKeyword()
}

type Lexer struct {
	sql          string
	position     int
	readPosition int
	ch           byte
}

func NewLexer(sql string) *Lexer {
	lexer := &Lexer{sql: sql}
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) readChar() {
	if lexer.readPosition >= len(lexer.sql) {
		lexer.ch = 0
	} else {
		lexer.ch = lexer.sql[lexer.readPosition]
	}
	lexer.position = lexer.readPosition
	lexer.readPosition++
}

func (lexer *Lexer) atEnd() bool {
	return lexer.position >= len(lexer.sql)
}

func (lexer *Lexer) NextToken() Token {
	var token Token

	lexer.skipWhitespace()

	if lexer.atEnd() {
		return Token{Type: EOF, Value: ""}
	}

	switch lexer.ch {
	case ',':
		token = Token{Type: Comma, Value: ","}
	case '(':
		token = Token{Type: ParenOpen, Value: "("}
	case ')':
		token = Token{Type: ParenClose, Value: ")"}
	case '*':
		token = Token{Type: Wildcard, Value: "*"}
	case '\'':
		return Token{Type: String, Value: lexer.readString()}
	case '"':
		return Token{Type: Text, Value: lexer.readText()}
	default:
		if isOperator(lexer.ch) {
			operator := lexer.readOperator()
			switch operator {
			case "=":
				return Token{Type: Equals, Value: operator}
			case "<>":
				return Token{Type: NotEquals, Value: operator}
			case "<":
				return Token{Type: LessThan, Value: operator}
			case ">":
				return Token{Type: GreaterThan, Value: operator}
			case "<=":
				return Token{Type: LessThanOrEqual, Value: operator}
			case ">=":
				return Token{Type: GreaterThanOrEqual, Value: operator}
			default:
				return Token{Type: Unknown, Value: operator}
			}
		}
		word := lexer.readWord()
		return Token{Type: lookupIdentifier(word), Value: word}
	}

	lexer.readChar()
	return token
}

func (lexer *Lexer) PeekToken() Token {
	savedPosition := lexer.position
	savedReadPosition := lexer.readPosition
	savedCh := lexer.ch

	token := lexer.NextToken()

	lexer.position = savedPosition
	lexer.readPosition = savedReadPosition
	lexer.ch = savedCh

	return token
}

func (lexer *Lexer) skipWhitespace() {
	for !lexer.atEnd() && isWhitespace(lexer.ch) {
		lexer.readChar()
	}
}

// readWord consumes everything up to the next whitespace or delimiter,
// so values such as 9.99 or 2024-01-15 stay a single token.
func (lexer *Lexer) readWord() string {
	position := lexer.position
	for !lexer.atEnd() && !isWhitespace(lexer.ch) && !isDelimiter(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

// readString returns the contents of a single-quoted literal without
// its quotes.
func (lexer *Lexer) readString() string {
	lexer.readChar() // skip opening quote
	position := lexer.position
	for !lexer.atEnd() && lexer.ch != '\'' {
		lexer.readChar()
	}
	str := lexer.sql[position:lexer.position]
	if !lexer.atEnd() {
		lexer.readChar() // skip closing quote
	}
	return str
}

// readText returns a double-quoted literal with its quotes kept, since
// the quotes are part of a stored text value. An unterminated literal
// runs to the end of input.
func (lexer *Lexer) readText() string {
	position := lexer.position
	lexer.readChar() // skip opening quote
	for !lexer.atEnd() && lexer.ch != '"' {
		lexer.readChar()
	}
	if !lexer.atEnd() {
		lexer.readChar() // include closing quote
	}
	return lexer.sql[position:lexer.position]
}

func (lexer *Lexer) readOperator() string {
	position := lexer.position
	for !lexer.atEnd() && isOperator(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	switch ch {
	case ',', '(', ')', '\'', '"', '*':
		return true
	}
	return isOperator(ch)
}

func isOperator(ch byte) bool {
	return ch == '=' || ch == '!' || ch == '<' || ch == '>'
}

// lookupIdentifier matches keywords case-sensitively; `select` is an
// ordinary identifier.
func lookupIdentifier(id string) TokenType {
	switch id {
	case "DATABASE":
		return DatabaseIdentifier
	case "DATABASES":
		return DatabasesIdentifier
	case "TABLE":
		return TableIdentifier
	case "TABLES":
		return TablesIdentifier
	case "CREATE":
		return Create
	case "USE":
		return Use
	case "LOAD":
		return Load
	case "INSERT":
		return Insert
	case "INTO":
		return Into
	case "SELECT":
		return Select
	case "FROM":
		return From
	case "WHERE":
		return Where
	case "DELETE":
		return Delete
	case "COMMIT":
		return Commit
	case "SHOW":
		return Show
	case "DESCRIBE":
		return Describe
	default:
		return Identifier
	}
}

func tokenize(sql string) []Token {
	lexer := NewLexer(sql)

	var tokens []Token

	for {
		token := lexer.NextToken()
		if token.Type == EOF {
			return append(tokens, token)
		}
		tokens = append(tokens, token)
	}
}
