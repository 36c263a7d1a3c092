package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewCitiesCmd(env *Env) *cobra.Command {
	var src source
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List cities, most frequent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := src.open(env)
			if err != nil {
				return err
			}
			defer closeFn()

			cities, err := svc.Cities(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cities {
				fmt.Fprintln(env.Output, c)
			}
			return nil
		},
	}
	src.bind(cmd)
	return cmd
}
