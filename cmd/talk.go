package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var talkCmd = &cobra.Command{
	Use:   "talk",
	Short: "Read and post on the message board",
}

var talkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List board messages, newest first",
	RunE:  runTalkList,
}

var talkAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Post a message (requires login)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTalkAdd,
}

var talkDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your messages (requires login)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTalkDelete,
}

func init() {
	talkCmd.AddCommand(talkListCmd)
	talkCmd.AddCommand(talkAddCmd)
	talkCmd.AddCommand(talkDeleteCmd)
	rootCmd.AddCommand(talkCmd)
}

func runTalkList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	msgs, err := a.talk.List(context.Background())
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Println("No messages yet.")
		return nil
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s  %s\n", m.ID, m.Username, m.CreateTimeStr)
		fmt.Printf("    %s\n", m.Content)
	}
	return nil
}

func runTalkAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.talk.Add(context.Background(), strings.Join(args, " ")); err != nil {
		return err
	}
	fmt.Println("Message posted.")
	return nil
}

func runTalkDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.talk.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Message %s deleted.\n", args[0])
	return nil
}
