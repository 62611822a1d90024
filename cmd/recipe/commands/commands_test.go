package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/cmd/recipe/commands"
	"go.trai.ch/recipe/internal/app"
	"go.trai.ch/recipe/internal/build"
)

type mockApp struct {
	runFunc   func(ctx context.Context, name string, opts app.RunOptions) error
	watchFunc func(ctx context.Context, name string, opts app.RunOptions) error
	listFunc  func(ctx context.Context, w io.Writer, opts app.ListOptions) error
}

func (m *mockApp) Run(ctx context.Context, name string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, name, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, name string, opts app.RunOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, name, opts)
	}
	return nil
}

func (m *mockApp) List(ctx context.Context, w io.Writer, opts app.ListOptions) error {
	if m.listFunc != nil {
		return m.listFunc(ctx, w, opts)
	}
	return nil
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedName string

		mock := &mockApp{
			runFunc: func(_ context.Context, name string, opts app.RunOptions) error {
				capturedOpts = opts
				capturedName = name
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "build", "--debug", "-j", "3", "-o", "tui", "-c", "ci/recipe.yaml"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "build", capturedName)
		assert.Equal(t, app.RunOptions{
			Debug:       true,
			OutputMode:  "tui",
			Concurrency: 3,
			ConfigPath:  "ci/recipe.yaml",
		}, capturedOpts)
	})

	t.Run("ci overrides output mode", func(t *testing.T) {
		var capturedOpts app.RunOptions
		mock := &mockApp{
			runFunc: func(_ context.Context, _ string, opts app.RunOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "build", "--output-mode", "tui", "--ci"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "linear", capturedOpts.OutputMode)
		assert.Empty(t, capturedOpts.ConfigPath)
	})

	t.Run("passes empty name when no aggregate given", func(t *testing.T) {
		called := false
		mock := &mockApp{
			runFunc: func(_ context.Context, name string, _ app.RunOptions) error {
				called = true
				assert.Empty(t, name)
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, called)
	})

	t.Run("rejects extra arguments", func(t *testing.T) {
		cli := commands.New(&mockApp{})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"run", "build", "publish"})

		require.Error(t, cli.Execute(context.Background()))
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(context.Context, string, app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "build"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Watch(t *testing.T) {
	var capturedOpts app.RunOptions
	var capturedName string
	mock := &mockApp{
		watchFunc: func(_ context.Context, name string, opts app.RunOptions) error {
			capturedName = name
			capturedOpts = opts
			return nil
		},
		runFunc: func(context.Context, string, app.RunOptions) error {
			panic("should not be called")
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"watch", "styles", "--ci", "--config", "recipe.yaml"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "styles", capturedName)
	assert.Equal(t, "linear", capturedOpts.OutputMode)
	assert.Equal(t, "recipe.yaml", capturedOpts.ConfigPath)
}

func TestCommands_List(t *testing.T) {
	var capturedOpts app.ListOptions
	mock := &mockApp{
		listFunc: func(_ context.Context, w io.Writer, opts app.ListOptions) error {
			capturedOpts = opts
			_, err := io.WriteString(w, "build\n")
			return err
		},
	}

	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"list", "--tree", "-c", "recipe.yaml"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "build\n", buf.String())
	assert.Equal(t, app.ListOptions{ConfigPath: "recipe.yaml", Tree: true}, capturedOpts)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "recipe version "+build.Version)
}
