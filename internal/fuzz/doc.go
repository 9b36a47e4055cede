// Package fuzztests houses Go fuzz harnesses for the pyl front end
// (source -> lexer -> parser -> sema). They guard against panics, hangs and
// broken span invariants on arbitrary inputs.
//
// Назначение: загрузить байты в FileSet и прогнать их через все стадии.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.

package fuzztests
