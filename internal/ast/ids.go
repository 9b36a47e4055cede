package ast

type (
	// главные сущности
	ProgramID uint32
	ItemID    uint32
	StmtID    uint32
	ExprID    uint32
	// подсущности
	PayloadID uint32
	FnParamID uint32
)

const (
	NoProgramID ProgramID = 0
	NoItemID    ItemID    = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoPayloadID PayloadID = 0
	NoFnParamID FnParamID = 0
)

func (id ProgramID) IsValid() bool { return id != NoProgramID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
func (id FnParamID) IsValid() bool { return id != NoFnParamID }
