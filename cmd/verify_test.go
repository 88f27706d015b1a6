package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cobfus.dev/pkg/cobfus/internal/domain"
	domainmocks "cobfus.dev/pkg/cobfus/internal/domain/mocks"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

func TestVerifyCmd_Defaults(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd := newRootCmd()
	cmd.AddCommand(newVerifyCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Verify", mock.Anything, mock.MatchedBy(func(args domain.VerifyArgs) bool {
		return len(args.Examples) == 0 && args.Parallel == 1 && args.Report == ""
	})).Return(nil).Once()

	cmd.SetArgs([]string{"verify"})
	require.NoError(t, cmd.Execute())
}

func TestVerifyCmd_Flags(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd := newRootCmd()
	cmd.AddCommand(newVerifyCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Verify", mock.Anything, domain.VerifyArgs{
		Examples: []string{"pi.c", "xor.c"},
		Parallel: 4,
		Report:   m.Path("verify.yaml"),
	}).Return(nil).Once()

	cmd.SetArgs([]string{"verify", "pi.c", "xor.c", "-p", "4", "--report", "verify.yaml"})
	require.NoError(t, cmd.Execute())
}

func TestVerifyCmd_Failure(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd := newRootCmd()
	cmd.AddCommand(newVerifyCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Verify", mock.Anything, mock.Anything).Return(domain.ErrVerificationFailed).Once()

	cmd.SetArgs([]string{"verify"})
	assert.ErrorIs(t, cmd.Execute(), domain.ErrVerificationFailed)
}
