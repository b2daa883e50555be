package mcpserver

import (
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
)

func TestRegisterResourcesDoesNotPanic(t *testing.T) {
	s := server.NewMCPServer("test", "0.0.0", server.WithResourceCapabilities(false, false))
	require.NotPanics(t, func() { registerResources(s) })
}

func TestAddDocDoesNotPanic(t *testing.T) {
	s := server.NewMCPServer("test", "0.0.0", server.WithResourceCapabilities(false, false))
	require.NotPanics(t, func() { addDoc(s, "docs://usage-guide", "Usage Guide", "desc", usageGuide) })
}

func TestDocConstantsAreNonEmpty(t *testing.T) {
	require.NotEmpty(t, usageGuide)
	require.NotEmpty(t, theorySummary)
	require.NotEmpty(t, srsSummary)
	require.NotEmpty(t, sdsSummary)
}
