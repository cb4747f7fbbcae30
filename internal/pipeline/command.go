// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Native tool names and the test-signing identity.
const (
	ToolStampinf = "stampinf"
	ToolInfverif = "infverif"
	ToolInf2cat  = "inf2cat"
	ToolCertmgr  = "certmgr.exe"
	ToolMakecert = "makecert"
	ToolSigntool = "signtool"

	CertStore       = "WDRTestCertStore"
	CertName        = "WDRLocalTestCert"
	CertFile        = CertName + ".cer"
	TimestampServer = "http://timestamp.digicert.com"
)

// Command is one native tool invocation.
type Command struct {
	Name string
	Args []string
}

// Argv returns the name followed by the arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Quoted renders c as a POSIX shell command line.
func (c Command) Quoted() (string, error) {
	words := c.Argv()
	quoted := make([]string, len(words))
	for i, w := range words {
		q, err := syntax.Quote(w, syntax.LangPOSIX)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}

// String renders c with spaces and no quoting.
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}
