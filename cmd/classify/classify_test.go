package classify

import (
	"bytes"
	"context"
	"testing"

	"mynab/budget-import/cmd/root"
	"mynab/budget-import/internal/config"
	"mynab/budget-import/internal/container"
	"mynab/budget-import/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommand(t *testing.T) {
	c, err := container.NewContainer(context.Background(), &config.Config{}, container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	prev := root.AppContainer
	root.AppContainer = c
	defer func() { root.AppContainer = prev }()

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, run(cmd, []string{"Pago Movistar", "Kiosco"}))
	assert.Equal(t, "SERVICE_PAYMENT\t3\tPago Movistar\nuncategorized\t-\tKiosco\n", out.String())
}

func TestClassifyCommand_Metadata(t *testing.T) {
	assert.Equal(t, "classify <description>...", Cmd.Use)
	assert.Error(t, Cmd.Args(Cmd, nil))
}
