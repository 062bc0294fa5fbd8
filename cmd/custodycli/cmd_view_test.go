package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdAsProtoText(t *testing.T) {
	dst := strings.Repeat("AB", 20)

	var tx bytes.Buffer
	require.NoError(t, cmdSend(nil, &tx, []string{"-src", strings.Repeat("01", 20), "-dst", dst, "-amount", "7", "-memo", "rent"}))
	raw := tx.Bytes()

	var out bytes.Buffer
	require.NoError(t, cmdAsProtoText(bytes.NewReader(raw), &out, nil))
	assert.Contains(t, out.String(), "send_msg")
	assert.Contains(t, out.String(), `memo: "rent"`)

	out.Reset()
	require.NoError(t, cmdAsProtoText(bytes.NewReader(raw), &out, []string{"-json"}))
	assert.Contains(t, out.String(), `"send_msg"`)
	assert.Contains(t, out.String(), `"`+dst+`"`)
}
