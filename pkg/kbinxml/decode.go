package kbinxml

import (
	"errors"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/iidx-tools/notecount/pkg/bytestream"
	"github.com/iidx-tools/notecount/pkg/sixbit"
	"github.com/iidx-tools/notecount/pkg/utils"
)

// ErrUnknownType is returned when decoding encounters an xml_type outside
// the type table, or any other condition spec.md §4.2 says should make the
// decode fail softly (undersized buffer, bad signature, bad compressed
// flag, a failed encoding_key XOR check, a node section overrunning the
// buffer, or a section that ends mid-record). Callers such as the ifs extractor translate this into
// ManifestParseError.
var ErrUnknownType = errors.New("kbinxml: undecodable type or malformed header")

const (
	headerSize       = 8
	signatureByte    = 0xA0
	compressedSixBit = 0x42
	compressedRaw    = 0x45
)

// Decode parses a complete kbinxml byte image and returns its root
// element. logger may be nil, in which case a null logger is used.
func Decode(data []byte, logger hclog.Logger) (result *Element, err error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	// A section that ends mid-record makes a fixed-width read run past the
	// buffer; report that as a soft failure rather than panicking.
	defer func() {
		if recover() != nil {
			logger.Debug("kbinxml: read past end of a truncated section")
			result, err = nil, ErrUnknownType
		}
	}()

	if len(data) <= headerSize {
		return nil, ErrUnknownType
	}

	node := bytestream.Open(data)
	node.SetEndianness(bytestream.BigEndian)

	signature := node.ReadU8()
	compressedFlag := node.ReadU8()
	encodingKey := node.ReadU8()
	notEncodingKey := node.ReadU8()
	nodeSectionLength := node.ReadU32()

	if signature != signatureByte {
		logger.Debug("kbinxml: bad signature", "got", signature)
		return nil, ErrUnknownType
	}
	if compressedFlag != compressedSixBit && compressedFlag != compressedRaw {
		logger.Debug("kbinxml: bad compressed flag", "got", compressedFlag)
		return nil, ErrUnknownType
	}
	if !utils.ValidComplement8(encodingKey, notEncodingKey) {
		logger.Debug("kbinxml: encoding_key XOR check failed")
		return nil, ErrUnknownType
	}
	if uint32(len(data)) < nodeSectionLength+headerSize {
		logger.Debug("kbinxml: buffer shorter than node section")
		return nil, ErrUnknownType
	}

	dataCursor := node.Duplicate()
	dataCursor.SetOffset(headerSize + nodeSectionLength)
	dataCursor.SetEndianness(bytestream.BigEndian)
	dataCursor.ReadU32() // data-section byte length: unused, structure is self-terminating

	compressed := compressedFlag == compressedSixBit

	root := &Element{Name: "__root__"}
	stack := []*Element{root}

	for {
		for !node.AtEnd() && node.PeekU8() == 0 {
			node.ReadU8()
		}
		if node.AtEnd() {
			logger.Debug("kbinxml: node section exhausted without END_SECTION")
			return nil, ErrUnknownType
		}

		rawType := node.ReadU8()
		isArray := rawType&arrayFlag != 0
		xmlType := rawType &^ arrayFlag

		if xmlType == typeNodeEnd {
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		if xmlType == typeEndSection {
			break
		}

		entry, ok := lookup(xmlType)
		if !ok {
			logger.Debug("kbinxml: unknown xml_type", "type", xmlType)
			return nil, ErrUnknownType
		}

		name := readName(node, compressed)
		current := stack[len(stack)-1]

		if xmlType == typeAttr {
			vLen := node.ReadU32()
			value := string(node.ReadBytes(vLen))
			node.Realign32()
			current.SetAttr(name, value)
			continue
		}

		child := current.addChild(name)
		stack = append(stack, child)

		if xmlType == typeNodeStart {
			continue
		}

		child.SetAttr("__type", entry.name)

		varCount := entry.count
		arrayCount := uint32(1)
		if varCount == -1 {
			varCount = int(dataCursor.ReadU32())
			isArray = true
		} else if isArray {
			arrayCount = dataCursor.ReadU32()
			child.SetAttr("__count", strconv.FormatUint(uint64(arrayCount), 10))
		}
		total := uint32(varCount) * arrayCount

		text := formatText(entry.code, dataCursor, total)
		dataCursor.Realign32()
		child.Text = &text

		if xmlType == typeBinary {
			child.SetAttr("__size", strconv.FormatUint(uint64(total), 10))
		}
	}

	if len(root.Children) != 1 {
		logger.Debug("kbinxml: expected exactly one root element", "count", len(root.Children))
		return nil, ErrUnknownType
	}
	return root.Children[0], nil
}

// readName reads a node or attribute name from the node cursor, using
// either six-bit packing or length-prefixed raw ASCII per the compressed
// flag.
func readName(node *bytestream.Reader, compressed bool) string {
	if compressed {
		return sixbit.Unpack(node)
	}

	// Non-+1 variant: the masked byte is the exact name length. spec.md §9
	// notes the source disagrees with itself here across variants; this
	// specification's resolved choice is the non-+1 reading.
	length := uint32(node.ReadU8() &^ arrayFlag)
	return string(node.ReadBytes(length))
}
