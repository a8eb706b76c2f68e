package ipp

// xmlsource.go is the thin adapter from an XML document to the abstract
// ProgramTree the loader validates. spec.md §1 places raw XML
// deserialization out of scope ("a thin adapter is assumed to produce
// it"); this is that adapter. encoding/xml is the one stdlib exception in
// this module — no XML library appears anywhere in the retrieved example
// corpus to ground a third-party choice on (see DESIGN.md).

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
)

type xmlProgram struct {
	XMLName  xml.Name
	Language string           `xml:"language,attr"`
	Instrs   []xmlInstruction `xml:"instruction"`
}

type xmlInstruction struct {
	Order  string   `xml:"order,attr"`
	Opcode string   `xml:"opcode,attr"`
	Args   []xmlArg `xml:",any"`
}

type xmlArg struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

var argTag = regexp.MustCompile(`^arg([1-9][0-9]*)$`)

// ParseXML decodes an XML document into a ProgramTree. It performs only the
// structural translation described by §4.1's root/instruction/argN shape;
// every semantic validation (opcode set, arity, order uniqueness, operand
// kind) happens in Loader.Load.
func ParseXML(r io.Reader) (*ProgramTree, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &InvalidXMLError{fmt.Sprintf("xml: %s", err)}
	}

	var doc xmlProgram

	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&doc); err != nil {
		return nil, &InvalidXMLError{fmt.Sprintf("xml: %s", err)}
	}

	if doc.XMLName.Local != "program" {
		return nil, &InvalidStructureError{fmt.Sprintf("root element must be <program>, got <%s>", doc.XMLName.Local)}
	}

	if err := checkRootAttrs(bytes.NewReader(body)); err != nil {
		return nil, err
	}

	tree := &ProgramTree{Language: doc.Language}

	for _, ins := range doc.Instrs {
		order, err := parseOrder(ins.Order)
		if err != nil {
			return nil, err
		}

		operands, err := collectOperands(ins.Args)
		if err != nil {
			return nil, err
		}

		tree.Instrs = append(tree.Instrs, RawInstruction{
			Order:    order,
			Opcode:   ins.Opcode,
			Operands: operands,
		})
	}

	return tree, nil
}

// checkRootAttrs re-scans the raw document for the root element's first
// StartElement and rejects any attribute besides name/description/language,
// a rule the xmlProgram struct's tag-based decoding doesn't enforce on its
// own (unmapped attributes are silently ignored by encoding/xml).
func checkRootAttrs(r io.Reader) error {
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err != nil {
			return &InvalidXMLError{fmt.Sprintf("xml: %s", err)}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "name", "description", "language":
			default:
				return &InvalidStructureError{fmt.Sprintf("root element: unexpected attribute %q", attr.Name.Local)}
			}
		}

		return nil
	}
}

// collectOperands sorts an instruction's <argN> children by the numeric
// suffix N regardless of document order, and validates that the suffixes
// used form the contiguous set {1, ..., n}, per §4.1.
func collectOperands(args []xmlArg) ([]Operand, error) {
	type indexed struct {
		n int
		o Operand
	}

	ordered := make([]indexed, 0, len(args))

	for _, a := range args {
		m := argTag.FindStringSubmatch(a.XMLName.Local)
		if m == nil {
			return nil, &InvalidStructureError{fmt.Sprintf("unexpected operand element: <%s>", a.XMLName.Local)}
		}

		n, _ := strconv.Atoi(m[1])

		ordered = append(ordered, indexed{n: n, o: Operand{Kind: LiteralKind(a.Type), Text: a.Text}})
	}

	sort.Slice(ordered, func(i, j int) bool { return ordered[i].n < ordered[j].n })

	for i, item := range ordered {
		if item.n != i+1 {
			return nil, &InvalidStructureError{
				fmt.Sprintf("operand suffixes must be contiguous from 1, missing arg%d", i+1),
			}
		}
	}

	operands := make([]Operand, len(ordered))
	for i, item := range ordered {
		operands[i] = item.o
	}

	return operands, nil
}
