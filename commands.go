package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledmod/action"
	"github.com/matt-g-everett/ledmod/anim"
	"github.com/matt-g-everett/ledmod/stream"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ledmod",
		Short:        "Compose and stream modular LED animations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "config.yaml", "YAML config file.")

	root.AddCommand(newServeCmd(), newInspectCmd(), newPlayCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Stream frames and accept play commands over MQTT and HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			a.Logger.Info("starting", "pixels", a.Config.Strip.Pixels, "views", len(a.Config.Views))
			return a.run(cmd.Context())
		},
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <action-file>",
		Short: "Print the module tree of an action document with its durations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			return inspect(cmd.OutOrStdout(), doc)
		},
	}
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <action-file>",
		Short: "Publish an action document to the play topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			config, err := stream.LoadConfig(configPath)
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := action.Decode(bytes.NewReader(payload)); err != nil {
				return err
			}

			options := mqtt.NewClientOptions().
				AddBroker(config.Mqtt.URL).
				SetClientID(config.Mqtt.ClientID + "-play").
				SetUsername(config.Mqtt.Username).
				SetPassword(config.Mqtt.Password)
			client := mqtt.NewClient(options)
			if token := client.Connect(); token.Wait() && token.Error() != nil {
				return token.Error()
			}
			defer client.Disconnect(250)

			token := client.Publish(config.Mqtt.Topics.Play, config.Mqtt.QoS, false, payload)
			token.Wait()
			return token.Error()
		},
	}
}

func readDocument(path string) (action.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return action.Document{}, err
	}
	defer f.Close()
	return action.Decode(f)
}

// nopAnimator lets documents be built without anything to run them on.
type nopAnimator struct{}

func (nopAnimator) Animate(_ time.Duration, _ anim.Options, _ func(), _ func(bool)) {}

func inspect(w io.Writer, doc action.Document) error {
	view := stream.NewView(doc.View, stream.State{})
	m, err := action.NewFactory(nopAnimator{}).Build(view, doc.Action)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "view %s\n", doc.View)
	printTree(w, doc.Action, m, 1)
	return nil
}

func printTree(w io.Writer, a action.Action, m anim.Module, depth int) {
	indent := strings.Repeat("  ", depth)
	switch m := m.(type) {
	case *anim.Serial:
		fmt.Fprintf(w, "%sserial %s\n", indent, m.Duration())
		for i, child := range m.Modules() {
			printTree(w, a.Actions[i], child, depth+1)
		}
	case *anim.Parallel:
		fmt.Fprintf(w, "%sparallel %s\n", indent, m.Duration())
		longest := m.Duration()
		marked := false
		for i, child := range m.Modules() {
			if !marked && child.Duration() == longest {
				marked = true
				fmt.Fprintf(w, "%s  (completes)\n", indent)
			}
			printTree(w, a.Actions[i], child, depth+1)
		}
	case *anim.Primitive:
		spring := ""
		if m.Options().Spring != nil {
			spring = " spring"
		}
		fmt.Fprintf(w, "%s%s %s%s\n", indent, a.Kind, m.Duration(), spring)
	}
}
