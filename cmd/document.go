package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/inovacc/gistvault/internal/encoding"
	"github.com/inovacc/gistvault/internal/gist"
	"github.com/inovacc/gistvault/internal/model"
	"github.com/inovacc/gistvault/internal/security"
	"github.com/inovacc/gistvault/internal/settings"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var docCmd = &cobra.Command{
	Use:     "doc",
	Aliases: []string{"document"},
	Short:   "Read and write JSON documents in gists",
	Long: `Commands for JSON documents stored as files in GitHub gists.

Commands that take an optional gist id default to the last document used,
and every successful read or create remembers the id for next time.

Available Commands:
  create    Create a gist holding a new document
  get       Print a document
  put       Replace a document
  list      List your gists
  items     Work with {"items": [...]} documents`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var docCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a gist holding a new document",
	Long: `Create a private gist with one JSON file.

Without --data the document starts as {"items": []}.

Examples:
  gistvault doc create
  gistvault doc create --file notes.json --data '{"notes": []}'
  gistvault doc create --description "Shared data" --public --register`,
	Args: cobra.NoArgs,
	RunE: runDocCreate,
}

var docGetCmd = &cobra.Command{
	Use:   "get [gist-id]",
	Short: "Print a document",
	Long: `Print a document as indented JSON.

--path selects part of the document using GJSON path syntax.

Examples:
  gistvault doc get
  gistvault doc get abc123 --file settings.json
  gistvault doc get --path 'items.#.text'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocGet,
}

var docPutCmd = &cobra.Command{
	Use:   "put [gist-id]",
	Short: "Replace a document",
	Long: `Replace a document with new JSON content. Other files in the gist are kept.

Content comes from --data, from --input, or from stdin.

Examples:
  gistvault doc put --data '{"items": []}'
  gistvault doc put abc123 --input backup.json
  jq '.items |= sort_by(.id)' data.json | gistvault doc put`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocPut,
}

var docListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your gists",
	Args:    cobra.NoArgs,
	RunE:    runDocList,
}

var (
	docFile        string
	docDescription string
	docPublic      bool
	docData        string
	docInput       string
	docPath        string
	docRegister    bool
	docAllowSecret bool
)

func init() {
	rootCmd.AddCommand(docCmd)

	docCmd.AddCommand(docCreateCmd)
	docCmd.AddCommand(docGetCmd)
	docCmd.AddCommand(docPutCmd)
	docCmd.AddCommand(docListCmd)

	docCmd.PersistentFlags().StringVar(&docFile, "file", "", "File name inside the gist (default from config, data.json)")

	docCreateCmd.Flags().StringVarP(&docDescription, "description", "d", "", "Gist description (default from config)")
	docCreateCmd.Flags().BoolVar(&docPublic, "public", false, "Create a public gist")
	docCreateCmd.Flags().StringVar(&docData, "data", "", "Initial JSON content")
	docCreateCmd.Flags().BoolVar(&docRegister, "register", false, "Also add the new gist to the settings gist")

	docCmd.PersistentFlags().BoolVar(&docAllowSecret, "allow-secrets", false, "Upload even if the content looks like it holds credentials")

	docGetCmd.Flags().StringVarP(&docPath, "path", "p", "", "GJSON path to print instead of the whole document")

	docPutCmd.Flags().StringVar(&docData, "data", "", "JSON content")
	docPutCmd.Flags().StringVarP(&docInput, "input", "i", "", "Read JSON content from a file ('-' for stdin)")
}

func documentFile() string {
	if docFile != "" {
		return docFile
	}

	return app.cfg.Documents.DefaultFile
}

// documentID returns the id from args or the remembered one.
func documentID(svc *settings.Service, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	id, err := svc.LastDocumentID()
	if err != nil {
		return "", err
	}

	if id == "" {
		return "", errors.New("no gist id given and none remembered: pass an id or run 'gistvault doc create'")
	}

	return id, nil
}

// rememberDocument stores id as the last document used. Failure only warns.
func rememberDocument(svc *settings.Service, id string) {
	if err := svc.SetLastDocumentID(id); err != nil {
		app.logger.Warn("failed to remember gist id", zap.String("gist", id), zap.Error(err))
	}
}

func parseDocument(data []byte) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("content is not valid JSON: %w", err)
	}

	return doc, nil
}

// checkSecrets refuses content that the leak scanner flags.
func checkSecrets(file string, content any) error {
	if docAllowSecret || !app.cfg.Documents.ScanSecrets {
		return nil
	}

	raw, err := encoding.ToJSONIndent(content)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	scanner, err := security.NewLeakScanner()
	if err != nil {
		return err
	}

	if result := scanner.ScanDocument(file, raw); result.HasLeaks {
		return fmt.Errorf("refusing to upload, %suse --allow-secrets to upload anyway", security.FormatFindings(result))
	}

	return nil
}

func runDocCreate(cmd *cobra.Command, _ []string) error {
	ctx, cancel := remoteContext(cmd)
	defer cancel()

	client, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	var content any = model.NewItemList()
	if docData != "" {
		if content, err = parseDocument([]byte(docData)); err != nil {
			return err
		}
	}

	description := docDescription
	if description == "" {
		description = app.cfg.Documents.Description
	}

	public := docPublic || app.cfg.Documents.Public

	if err := checkSecrets(documentFile(), content); err != nil {
		return err
	}

	doc, err := client.Create(ctx, description, documentFile(), content, public)
	if err != nil {
		return err
	}

	rememberDocument(svc, doc.ID)

	_, _ = fmt.Fprintf(os.Stdout, "%s Created gist %s\n", okStyle.Render("✓"), idStyle.Render(doc.ID))

	if doc.HTMLURL != "" {
		printField("URL", doc.HTMLURL)
	}

	if docRegister {
		if _, err := svc.AddGist(ctx, doc.ID, description); err != nil {
			return fmt.Errorf("gist created but not registered: %w", err)
		}

		_, _ = fmt.Fprintln(os.Stdout, "Registered in settings gist.")
	}

	return nil
}

func runDocGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := remoteContext(cmd)
	defer cancel()

	client, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	id, err := documentID(svc, args)
	if err != nil {
		return err
	}

	raw, err := client.Fetch(ctx, id, documentFile())
	if err != nil {
		return err
	}

	rememberDocument(svc, id)

	if docPath != "" {
		out, err := selectPath(raw, docPath)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(os.Stdout, out)

		return nil
	}

	pretty, err := encoding.Reindent(raw)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, string(pretty))

	return nil
}

// selectPath applies a GJSON path to raw. Strings print unquoted, anything
// else prints as JSON.
func selectPath(raw []byte, path string) (string, error) {
	result := gjson.GetBytes(raw, path)
	if !result.Exists() {
		return "", fmt.Errorf("path %q not found in document", path)
	}

	if result.Type == gjson.String {
		return result.String(), nil
	}

	pretty, err := encoding.Reindent([]byte(result.Raw))
	if err != nil {
		return result.Raw, nil
	}

	return string(pretty), nil
}

func runDocPut(cmd *cobra.Command, args []string) error {
	data, err := readInput(docData, docInput)
	if err != nil {
		return err
	}

	doc, err := parseDocument(data)
	if err != nil {
		return err
	}

	ctx, cancel := remoteContext(cmd)
	defer cancel()

	client, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	id, err := documentID(svc, args)
	if err != nil {
		return err
	}

	if err := checkSecrets(documentFile(), doc); err != nil {
		return err
	}

	if _, err := client.Update(ctx, id, documentFile(), doc); err != nil {
		return err
	}

	rememberDocument(svc, id)

	_, _ = fmt.Fprintf(os.Stdout, "%s Saved %s in gist %s\n", okStyle.Render("✓"), documentFile(), idStyle.Render(id))

	return nil
}

func runDocList(cmd *cobra.Command, _ []string) error {
	ctx, cancel := remoteContext(cmd)
	defer cancel()

	client, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	docs, err := client.List(ctx)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		printEmptyResult("gists", "gistvault doc create")
		return nil
	}

	current, _ := svc.LastDocumentID()
	settingsID, _ := svc.SettingsID()

	printDocuments(docs, current, settingsID)

	return nil
}

func printDocuments(docs []*gist.Document, current, settingsID string) {
	_, _ = fmt.Fprintf(os.Stdout, "%s\n\n", headerStyle.Render(fmt.Sprintf("%d gists", len(docs))))

	for _, d := range docs {
		marker := " "

		switch d.ID {
		case current:
			marker = okStyle.Render("*")
		case settingsID:
			marker = warnStyle.Render("s")
		}

		visibility := "secret"
		if d.Public {
			visibility = "public"
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s %s  %-6s  %s  %s\n",
			marker,
			idStyle.Render(d.ID),
			visibility,
			formatTime(d.UpdatedAt),
			truncateString(d.Description, maxDescWidth),
		)

		if len(d.Files) > 0 {
			_, _ = fmt.Fprintf(os.Stdout, "    %s\n", labelStyle.Render(strings.Join(d.Files, ", ")))
		}
	}
}

var docItemsCmd = &cobra.Command{
	Use:   "items",
	Short: `Work with {"items": [...]} documents`,
	Long: `Commands for documents shaped as {"items": [{"id": <ms>, "text": "..."}]}.

Available Commands:
  list      Print the items
  add       Append an item
  remove    Remove an item by id`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var docItemsListCmd = &cobra.Command{
	Use:   "list [gist-id]",
	Short: "Print the items",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocItemsList,
}

var docItemsAddCmd = &cobra.Command{
	Use:   "add <text> [gist-id]",
	Short: "Append an item",
	Long: `Append an item. Its id is the current time in milliseconds.

Examples:
  gistvault doc items add "buy milk"
  gistvault doc items add "call bob" abc123`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDocItemsAdd,
}

var docItemsRemoveCmd = &cobra.Command{
	Use:   "remove <item-id> [gist-id]",
	Short: "Remove an item by id",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDocItemsRemove,
}

func init() {
	docCmd.AddCommand(docItemsCmd)

	docItemsCmd.AddCommand(docItemsListCmd)
	docItemsCmd.AddCommand(docItemsAddCmd)
	docItemsCmd.AddCommand(docItemsRemoveCmd)
}

// withItems fetches the items document, applies edit and saves it when edit
// reports a change.
func withItems(cmd *cobra.Command, args []string, edit func(*model.ItemList) (bool, error)) error {
	ctx, cancel := remoteContext(cmd)
	defer cancel()

	client, svc, err := protectedRemote(ctx)
	if err != nil {
		return err
	}

	id, err := documentID(svc, args)
	if err != nil {
		return err
	}

	list := model.NewItemList()
	if err := client.FetchInto(ctx, id, documentFile(), &list); err != nil {
		return err
	}

	rememberDocument(svc, id)

	if list.Items == nil {
		list.Items = []model.Item{}
	}

	changed, err := edit(&list)
	if err != nil || !changed {
		return err
	}

	if err := checkSecrets(documentFile(), list); err != nil {
		return err
	}

	_, err = client.Update(ctx, id, documentFile(), list)

	return err
}

func runDocItemsList(cmd *cobra.Command, args []string) error {
	return withItems(cmd, args, func(list *model.ItemList) (bool, error) {
		if len(list.Items) == 0 {
			printEmptyResult("items", "gistvault doc items add <text>")
			return false, nil
		}

		for _, it := range list.Items {
			_, _ = fmt.Fprintf(os.Stdout, "%s  %s\n", idStyle.Render(strconv.FormatInt(it.ID, 10)), it.Text)
		}

		return false, nil
	})
}

func runDocItemsAdd(cmd *cobra.Command, args []string) error {
	text := args[0]
	if strings.TrimSpace(text) == "" {
		return errors.New("item text is empty")
	}

	var item model.Item

	err := withItems(cmd, args[1:], func(list *model.ItemList) (bool, error) {
		item = list.Add(text, time.Now())
		return true, nil
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Added item %d\n", okStyle.Render("✓"), item.ID)

	return nil
}

func runDocItemsRemove(cmd *cobra.Command, args []string) error {
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q: %w", args[0], err)
	}

	err = withItems(cmd, args[1:], func(list *model.ItemList) (bool, error) {
		if !list.Remove(itemID) {
			return false, fmt.Errorf("item %d not found", itemID)
		}

		return true, nil
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s Removed item %d\n", okStyle.Render("✓"), itemID)

	return nil
}
