package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnexpectedChar           Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexInvalidLiteral           Code = 1003
	LexUnexpectedEOF            Code = 1004

	// Парсерные
	SynInfo             Code = 2000
	SynExpectedToken    Code = 2001
	SynExpectedAnyToken Code = 2002
	SynUnexpectedEOF    Code = 2003

	// Семантические ошибки
	SemaInfo                    Code = 3000
	SemaMissingMain             Code = 3001
	SemaMainMustReturnInt       Code = 3002
	SemaFunctionAlreadyDeclared Code = 3003
	SemaVariableAlreadyDeclared Code = 3004
	SemaMissingReturn           Code = 3005
	SemaIncompatibleReturnType  Code = 3006
	SemaTypesDoNotMatch         Code = 3007
	SemaNonBooleanCondition     Code = 3008
	SemaFunctionNotDeclared     Code = 3009
	SemaVariableNotDeclared     Code = 3010
	SemaArgumentCountMismatch   Code = 3011
	SemaUnsupportedUnary        Code = 3012
	SemaUnsupportedBinary       Code = 3013

	// Семантические предупреждения
	SemaUnusedVariable  Code = 3900
	SemaUnusedFunction  Code = 3901
	SemaUnreachableCode Code = 3902

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnexpectedChar:           "Unexpected character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexInvalidLiteral:           "Invalid literal",
	LexUnexpectedEOF:            "Unexpected end of input",
	SynInfo:                     "Syntax information",
	SynExpectedToken:            "Unexpected token",
	SynExpectedAnyToken:         "Unexpected token",
	SynUnexpectedEOF:            "Unexpected end of input",
	SemaInfo:                    "Semantic information",
	SemaMissingMain:             "Missing main function",
	SemaMainMustReturnInt:       "main must return int",
	SemaFunctionAlreadyDeclared: "Function already declared",
	SemaVariableAlreadyDeclared: "Variable already declared",
	SemaMissingReturn:           "Missing return statement",
	SemaIncompatibleReturnType:  "Incompatible return type",
	SemaTypesDoNotMatch:         "Types do not match",
	SemaNonBooleanCondition:     "Condition must be a boolean",
	SemaFunctionNotDeclared:     "Function not declared",
	SemaVariableNotDeclared:     "Variable not declared",
	SemaArgumentCountMismatch:   "Argument count mismatch",
	SemaUnsupportedUnary:        "Unsupported unary operation",
	SemaUnsupportedBinary:       "Unsupported binary operation",
	SemaUnusedVariable:          "Unused variable",
	SemaUnusedFunction:          "Unused function",
	SemaUnreachableCode:         "Unreachable code",
	IOInfo:                      "I/O information",
	IOLoadFileError:             "Failed to load file",
}

// ID returns the stable textual identifier, e.g. "SEM3005".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Stage names the pipeline phase that owns the code.
func (c Code) Stage() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return "lex"
	case ic >= 2000 && ic < 3000:
		return "parse"
	case ic >= 3000 && ic < 4000:
		return "sema"
	case ic >= 4000 && ic < 5000:
		return "io"
	}
	return "unknown"
}
