package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unistate/devenv/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage named environment profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := config.LoadProfiles()
		if err != nil {
			return err
		}
		if len(pc.Profiles) == 0 {
			fmt.Println("no profiles configured")
			return nil
		}
		names := make([]string, 0, len(pc.Profiles))
		for name := range pc.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tIMAGE\tPORT\tDESCRIPTION")
		for _, name := range names {
			p := pc.Profiles[name]
			marker := "  "
			if name == pc.Active {
				marker = "* "
			}
			port := ""
			if p.Port != 0 {
				port = fmt.Sprintf("%d", p.Port)
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", marker, name, p.PostgresImage, port, p.Description)
		}
		return w.Flush()
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := config.LoadProfiles()
		if err != nil {
			return err
		}
		p, ok := pc.Profiles[args[0]]
		if !ok {
			return fmt.Errorf("profile %q not found", args[0])
		}
		if jsonOutput {
			printJSON(p)
			return nil
		}
		fmt.Printf("Name:        %s\n", args[0])
		if p.PostgresImage != "" {
			fmt.Printf("Image:       %s\n", p.PostgresImage)
		}
		if p.Port != 0 {
			fmt.Printf("Port:        %d\n", p.Port)
		}
		if p.Database != "" {
			fmt.Printf("Database:    %s\n", p.Database)
		}
		if p.User != "" {
			fmt.Printf("User:        %s\n", p.User)
		}
		if p.Description != "" {
			fmt.Printf("Description: %s\n", p.Description)
		}
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a profile active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := config.LoadProfiles()
		if err != nil {
			return err
		}
		if _, ok := pc.Profiles[args[0]]; !ok {
			return fmt.Errorf("profile %q not found", args[0])
		}
		pc.Active = args[0]
		if err := config.SaveProfiles(pc); err != nil {
			return err
		}
		fmt.Printf("profile %q is now active\n", args[0])
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Add or update a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := config.LoadProfiles()
		if err != nil {
			return err
		}
		p := pc.Profiles[args[0]]
		if v, _ := cmd.Flags().GetString("image"); v != "" {
			p.PostgresImage = v
		}
		if v, _ := cmd.Flags().GetInt("port"); v != 0 {
			p.Port = v
		}
		if v, _ := cmd.Flags().GetString("database"); v != "" {
			p.Database = v
		}
		if v, _ := cmd.Flags().GetString("user"); v != "" {
			p.User = v
		}
		if v, _ := cmd.Flags().GetString("password"); v != "" {
			p.Password = v
		}
		if v, _ := cmd.Flags().GetString("description"); v != "" {
			p.Description = v
		}
		pc.Profiles[args[0]] = p
		if err := config.SaveProfiles(pc); err != nil {
			return err
		}
		fmt.Printf("profile %q saved\n", args[0])
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := config.LoadProfiles()
		if err != nil {
			return err
		}
		if _, ok := pc.Profiles[args[0]]; !ok {
			return fmt.Errorf("profile %q not found", args[0])
		}
		delete(pc.Profiles, args[0])
		if pc.Active == args[0] {
			pc.Active = ""
		}
		if err := config.SaveProfiles(pc); err != nil {
			return err
		}
		fmt.Printf("profile %q removed\n", args[0])
		return nil
	},
}

func init() {
	profileSetCmd.Flags().String("image", "", "postgres image reference")
	profileSetCmd.Flags().Int("port", 0, "host port to publish")
	profileSetCmd.Flags().String("database", "", "database name")
	profileSetCmd.Flags().String("user", "", "database user")
	profileSetCmd.Flags().String("password", "", "database password")
	profileSetCmd.Flags().String("description", "", "free-form description")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileRemoveCmd)
}
