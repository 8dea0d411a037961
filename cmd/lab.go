package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"container-labs/internal/labs/bindmount"
	"container-labs/internal/labs/launcher"
	"container-labs/internal/labs/myip"

	"github.com/spf13/cobra"
)

func newLabCmd() *cobra.Command {
	labCmd := &cobra.Command{
		Use:   "lab",
		Short: "Run one of the course lab programs",
	}

	labCmd.AddCommand(newBindMountCmd())
	labCmd.AddCommand(newMyIPCmd())
	labCmd.AddCommand(newLaunchCmd())

	return labCmd
}

func newBindMountCmd() *cobra.Command {
	var opts bindmount.Options

	bindMountCmd := &cobra.Command{
		Use:   "bindmount",
		Short: "List a mounted directory and write a file back into it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := bindmount.Run(cmd.OutOrStdout(), opts)
			return err
		},
	}

	bindMountCmd.Flags().StringVar(&opts.Dir, "dir", bindmount.DefaultDir, "Directory to list and write into")
	bindMountCmd.Flags().StringVar(&opts.Output, "output", bindmount.DefaultOutput, "Name of the file to create")

	return bindMountCmd
}

func newMyIPCmd() *cobra.Command {
	var url string
	var timeout time.Duration

	myIPCmd := &cobra.Command{
		Use:   "myip",
		Short: "Print the public IP address seen by a test endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return myip.Run(cmd.Context(), cmd.OutOrStdout(), myip.NewClient(url, nil), timeout)
		},
	}

	myIPCmd.Flags().StringVar(&url, "url", myip.DefaultURL, "Endpoint returning {\"origin\": ...}")
	myIPCmd.Flags().DurationVar(&timeout, "timeout", myip.DefaultTimeout, "Request timeout")

	return myIPCmd
}

func newLaunchCmd() *cobra.Command {
	var opts launcher.Options

	launchCmd := &cobra.Command{
		Use:   "launch --image IMAGE [flags] -- COMMAND [ARG...]",
		Short: "Run a command in a container with a host directory bind-mounted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l, err := launcher.New()
			if err != nil {
				return err
			}
			defer l.Close()

			opts.Cmd = args
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return l.Run(ctx, opts)
		},
	}

	flags := launchCmd.Flags()
	flags.StringVar(&opts.Image, "image", "", "Container image to run")
	flags.StringVar(&opts.Dir, "dir", ".", "Host directory to mount")
	flags.StringVar(&opts.Target, "target", launcher.DefaultTarget, "Mount point and working directory inside the container")
	flags.StringVar(&opts.Publish, "publish", "", "Publish a TCP port as HOST:CONTAINER")
	flags.BoolVar(&opts.Pull, "pull", false, "Pull the image before creating the container")
	_ = launchCmd.MarkFlagRequired("image")

	return launchCmd
}
