package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"contentagent/internal/agent"
	"contentagent/provider"
	"contentagent/tools/catalog"
	"contentagent/tools/instructions"
)

func chatCMD(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive session with the content agent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, tel, err := setup(*configPath)
			if err != nil {
				return err
			}
			pv, err := provider.NewProvider(cfg.LLM)
			if err != nil {
				return err
			}
			reg, err := catalog.New(cfg, tel)
			if err != nil {
				return err
			}
			a := agent.New(pv, reg, instructions.System(), cfg, tel)

			fmt.Printf("contentagent — model %s, tools: %s\n",
				pv.Model(), strings.Join(reg.Names(), ", "))
			fmt.Println(`Type your request, "reset" to start over, "exit" to leave.`)

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				outcome, err := a.Turn(cmd.Context(), scanner.Text())
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}
				fmt.Println(outcome.Text)
				if outcome.Quit {
					return nil
				}
			}
		},
	}
}
