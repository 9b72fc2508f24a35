package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/chatlaw/pkg/cli"
	"github.com/m-mizutani/gt"
)

// clearEnv keeps commands away from real cloud resources
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_CLOUD_PROJECT",
		"CHATLAW_BUCKET",
		"CHATLAW_BIGQUERY_DATASET",
		"CHATLAW_POLICY_DIR",
		"CHATLAW_GENERATOR",
	} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, stdin string, args ...string) (string, *cli.Error) {
	t.Helper()
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	argv := append([]string{"chatlaw"}, args...)
	err := cli.Run(context.Background(), argv,
		cli.WithWriter(out),
		cli.WithErrWriter(logs),
		cli.WithReader(strings.NewReader(stdin)),
	)
	return out.String(), err
}

func TestCatalog(t *testing.T) {
	clearEnv(t)

	out, err := run(t, "", "catalog", "-t", "criminal", "-s", "robbery")
	gt.V(t, err).Nil()
	gt.S(t, out).Contains("1. When did the robbery occur?\n2. Where exactly did it happen? (street / shop / home)\n")

	_, err = run(t, "", "catalog", "-t", "maritime")
	gt.V(t, err).NotNil()
	gt.Equal(t, err.Code, 1)

	_, err = run(t, "", "catalog", "-t", "criminal", "-s", "fraud")
	gt.V(t, err).NotNil()
}

func TestConsultWithTemplate(t *testing.T) {
	clearEnv(t)

	stdin := "yesterday evening\n\nShivaji market, Pune\n"
	out, err := run(t, stdin, "consult",
		"--query", "robbery happened at my shop yesterday",
		"--max-turns", "2",
		"--generator", "template",
		"--session-ttl", "0",
	)
	gt.V(t, err).Nil()
	gt.S(t, out).Contains("Case type: criminal (robbery)")
	gt.S(t, out).Contains("[1/2] When did the robbery occur?")
	gt.S(t, out).Contains("Please type an answer.")
	gt.S(t, out).Contains("[2/2] Where exactly did it happen?")
	gt.S(t, out).Contains("LEGAL CONSULTATION REPORT")
	gt.S(t, out).Contains("finished after 2 answers")
}

func TestConsultReadsQueryFromInput(t *testing.T) {
	clearEnv(t)

	stdin := "my husband wants a divorce and custody of our child\nexit\n"
	out, err := run(t, stdin, "consult", "--generator", "template", "--session-ttl", "0")
	gt.V(t, err).Nil()
	gt.S(t, out).Contains("Describe your legal issue:")
	gt.S(t, out).Contains("Case type: family")
	gt.S(t, out).Contains("[1/7]")
	gt.S(t, out).Contains("Consultation aborted")
	gt.S(t, out).NotContains("LEGAL CONSULTATION REPORT")
}

func TestConsultEndOfInput(t *testing.T) {
	clearEnv(t)

	out, err := run(t, "", "consult", "--query", "robbery at my shop", "--generator", "template", "--session-ttl", "0")
	gt.V(t, err).Nil()
	gt.S(t, out).Contains("When did the robbery occur?")
	gt.S(t, out).Contains("Consultation aborted")
}

func TestConsultUnknownGenerator(t *testing.T) {
	clearEnv(t)

	_, err := run(t, "", "consult", "--query", "robbery at my shop", "--generator", "oracle")
	gt.V(t, err).NotNil()
	gt.S(t, err.Message).Contains("unknown generator")
}
