package ipp

// loader.go validates an abstract program tree and produces the
// instruction vector and label table the engine executes (spec.md §4.1).
// It follows the two-pass shape of the teacher's internal/vm/loader.go
// (Loader.Load / Loader.LoadVector): first collect and validate, then sort
// and index, mirroring the original Python implementation's XMLParser.py,
// which likewise re-sorts by `order` before building the label table.

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vutfit/ipp23/internal/log"
)

// Loader validates a ProgramTree and produces a Program ready to execute.
type Loader struct {
	log *log.Logger
}

// NewLoader creates a program loader.
func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	return &Loader{log: logger}
}

// Program is the loaded, executable form of an IPPcode23 source: a
// zero-indexed instruction vector plus the label table built from it.
type Program struct {
	Instrs []Instruction
	Labels LabelTable
}

// Load validates tree and builds a Program. All validation failures are
// reported as ErrInvalidStructure; duplicate label definitions are
// reported as ErrSemantic, per §4.1's "a second definition of the same
// label is a semantic error."
func (l *Loader) Load(tree *ProgramTree) (*Program, error) {
	if !strings.EqualFold(tree.Language, "ippcode23") {
		return nil, &InvalidStructureError{
			fmt.Sprintf("unsupported language: %q", tree.Language),
		}
	}

	instrs := make([]Instruction, 0, len(tree.Instrs))
	seenOrder := make(map[int]bool, len(tree.Instrs))

	for _, raw := range tree.Instrs {
		if raw.Order < 1 {
			return nil, &InvalidStructureError{
				fmt.Sprintf("instruction order must be >= 1, got %d", raw.Order),
			}
		}

		if seenOrder[raw.Order] {
			return nil, &InvalidStructureError{
				fmt.Sprintf("duplicate instruction order: %d", raw.Order),
			}
		}

		seenOrder[raw.Order] = true

		op, ok := normalizeOpcode(raw.Opcode)
		if !ok {
			return nil, &InvalidStructureError{fmt.Sprintf("unknown opcode: %q", raw.Opcode)}
		}

		want, ok := arities[op]
		if !ok || int(want) != len(raw.Operands) {
			return nil, &InvalidStructureError{
				fmt.Sprintf("%s: expected %d operands, got %d", op, want, len(raw.Operands)),
			}
		}

		for i, o := range raw.Operands {
			if _, ok := validLiteralKind(string(o.Kind)); !ok {
				return nil, &InvalidStructureError{
					fmt.Sprintf("%s: arg%d: invalid operand type %q", op, i+1, o.Kind),
				}
			}

			// Every operand requires text content except an empty-string
			// literal, whose whole point is to carry no characters.
			if o.Text == "" && o.Kind != LiteralString {
				return nil, &InvalidStructureError{
					fmt.Sprintf("%s: arg%d: missing text content for %s operand", op, i+1, o.Kind),
				}
			}
		}

		instrs = append(instrs, Instruction{
			Opcode:   op,
			Operands: raw.Operands,
			Order:    raw.Order,
		})
	}

	sort.Slice(instrs, func(i, j int) bool { return instrs[i].Order < instrs[j].Order })

	for i := range instrs {
		instrs[i].Index = i
	}

	labels := make(LabelTable)

	for _, ins := range instrs {
		if ins.Opcode != OpLabel {
			continue
		}

		name := ins.Operands[0].Text

		if _, ok := labels[name]; ok {
			return nil, &SemanticError{fmt.Sprintf("label redefined: %s", name)}
		}

		labels[name] = ins.Index
	}

	l.log.Debug("loaded program", "instructions", len(instrs), "labels", len(labels))

	return &Program{Instrs: instrs, Labels: labels}, nil
}

// parseOrder is used by the XML adapter to parse the decimal order
// attribute before the raw instruction is handed to Load.
func parseOrder(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InvalidStructureError{fmt.Sprintf("invalid order attribute: %q", s)}
	}

	return n, nil
}
