package ultra

import (
	"fmt"
	"strings"
)

// CommandLine carries the kernel command line as a single null-terminated
// string. A loader with no configured command line omits the attribute
// entirely; an empty Text still encodes a present, empty command line.
type CommandLine struct {
	Text string
}

func (c *CommandLine) Kind() AttributeType { return AttributeCommandLine }

func (c *CommandLine) encodePayload() ([]byte, error) {
	if strings.IndexByte(c.Text, 0) >= 0 {
		return nil, fmt.Errorf("command line contains a null byte")
	}
	out := make([]byte, len(c.Text)+1)
	copy(out, c.Text)
	return out, nil
}

func decodeCommandLine(payload []byte) (*CommandLine, error) {
	text, err := fixedString(payload)
	if err != nil {
		return nil, fmt.Errorf("command line: %w", err)
	}
	return &CommandLine{Text: text}, nil
}
