package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dale-assistant/internal/page"
	"dale-assistant/internal/pagecontext"
	"dale-assistant/internal/widget"
)

// newRenderCommand drives a headless session: attach, open, submit each
// prompt, wait for every reply, then print the resulting page.
func newRenderCommand(a *app) *cobra.Command {
	var (
		htmlFile string
		selector string
		prompts  []string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run a headless widget session and print the host page HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := loadDocument(htmlFile)
			if err != nil {
				return err
			}
			client, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			ctrl, err := widget.New(doc, pagecontext.URLLocation(a.cfg.Page), client,
				widget.WithLogger(a.logger),
				widget.WithBaseContext(cmd.Context()),
			)
			if err != nil {
				return err
			}
			ctrl.Attach()
			doc.Click(widget.TriggerID)
			for _, p := range prompts {
				ctrl.Submit(p)
			}
			ctrl.Wait()

			if selector != "" {
				_, err = fmt.Fprintln(a.out, doc.Text(selector))
				return err
			}
			html, err := doc.HTML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, html)
			return err
		},
	}
	cmd.Flags().StringVar(&htmlFile, "html", "", "host page to attach to (default: an empty page)")
	cmd.Flags().StringVar(&selector, "select", "", "print only the text of elements matching this CSS selector")
	cmd.Flags().StringArrayVarP(&prompts, "prompt", "p", nil, "prompt to submit; repeatable")
	return cmd
}

func loadDocument(path string) (*page.Document, error) {
	if path == "" {
		return page.New("Dale"), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return page.Parse(f)
}
