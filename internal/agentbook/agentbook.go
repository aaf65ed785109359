// Package agentbook loads the agency roster workbook and answers DBA name
// lookups by agent code or by the roster's alternate match key. Agencies
// operate under multiple codes; two codes refer to the same agency iff
// they resolve to the same DBA name.
package agentbook

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Column headers expected in the roster sheet.
const (
	colDBAName   = "DBAName"
	colMatch     = "Match"
	colAgentCode = "AgentCode"
)

// Book is an in-memory index over the agency roster.
type Book struct {
	matchToDBA     map[string]string
	agentCodeToDBA map[string]string
}

// Load opens the roster workbook and indexes the first sheet. Rows with a
// blank DBA name are skipped; a missing key column skips that mapping only.
func Load(path string) (*Book, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "agentbook: open workbook %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("agentbook: workbook %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("agentbook: workbook %s sheet is empty", path)
	}

	cols, err := headerIndex(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	book := &Book{
		matchToDBA:     make(map[string]string),
		agentCodeToDBA: make(map[string]string),
	}
	for _, row := range sheet.Rows[1:] {
		dba := cellValue(row, cols[colDBAName])
		if dba == "" {
			continue
		}
		if match := cellValue(row, cols[colMatch]); match != "" {
			book.matchToDBA[match] = dba
		}
		if code := cellValue(row, cols[colAgentCode]); code != "" {
			book.agentCodeToDBA[code] = dba
		}
	}
	return book, nil
}

// DBAByAgentCode returns the DBA name for an agent code, or "" when the
// code is not on the roster.
func (b *Book) DBAByAgentCode(code string) string {
	return b.agentCodeToDBA[code]
}

// DBAByMatch returns the DBA name for a roster match key, or "".
func (b *Book) DBAByMatch(match string) string {
	return b.matchToDBA[match]
}

// DBAByAny tries the match index first, then the agent-code index.
func (b *Book) DBAByAny(code string) string {
	if dba := b.DBAByMatch(code); dba != "" {
		return dba
	}
	return b.DBAByAgentCode(code)
}

// SameAgency reports whether two codes resolve to the same DBA name. An
// unknown code never matches anything, including itself.
func (b *Book) SameAgency(codeA, codeB string) bool {
	dbaA := b.DBAByAny(codeA)
	dbaB := b.DBAByAny(codeB)
	if dbaA == "" || dbaB == "" {
		return false
	}
	return dbaA == dbaB
}

// AgentCodeCount returns the number of indexed agent codes.
func (b *Book) AgentCodeCount() int { return len(b.agentCodeToDBA) }

// MatchCount returns the number of indexed match keys.
func (b *Book) MatchCount() int { return len(b.matchToDBA) }

func headerIndex(header *xlsx.Row) (map[string]int, error) {
	cols := map[string]int{colDBAName: -1, colMatch: -1, colAgentCode: -1}
	for i, cell := range header.Cells {
		name := strings.TrimSpace(cell.String())
		if _, ok := cols[name]; ok {
			cols[name] = i
		}
	}
	if cols[colDBAName] < 0 {
		return nil, eris.Errorf("agentbook: header row is missing the %s column", colDBAName)
	}
	return cols, nil
}

func cellValue(row *xlsx.Row, idx int) string {
	if idx < 0 || idx >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[idx].String())
}
