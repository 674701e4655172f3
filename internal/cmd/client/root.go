package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the Silt client.
// It registers the topic command group.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "silt",
		Short: "Silt client commands",
	}
	root.AddCommand(NewTopicCommand(baseURL))
	return root
}
