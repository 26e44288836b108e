// Copyright 2025 The studyowl Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/studyowl/studyowl"
	"github.com/studyowl/studyowl/config"
	"github.com/studyowl/studyowl/core"
	"github.com/studyowl/studyowl/extract"
	"github.com/studyowl/studyowl/search"
	"github.com/studyowl/studyowl/vectorstore"
)

func main() {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "studyowl",
		Usage: "Turn documents into summaries, practice questions and a searchable index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (defaults to ./studyowl.yaml, then ~/.config/studyowl/config.yaml)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a document and process it",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name for the document (defaults to the file name)",
					},
					&cli.StringFlag{
						Name:  "mime",
						Usage: "MIME type of the file (defaults from the file extension)",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Retrieve the document passages most relevant to a question",
				ArgsUsage: "<document-id> <question...>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "hits",
						Aliases: []string{"n"},
						Usage:   "Maximum number of passages to return",
						Value:   5,
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print retrieval stages as they run",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List stored documents",
				Action: listCommand,
			},
			{
				Name:      "status",
				Usage:     "Show a document's processing status, chapters and concepts",
				ArgsUsage: "<document-id>",
				Action:    statusCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete a document and everything derived from it",
				ArgsUsage: "<document-id>",
				Action:    deleteCommand,
			},
			{
				Name:      "reindex",
				Usage:     "Rebuild the vector index from stored chunks",
				ArgsUsage: "[document-id]",
				Action:    reindexCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Reindex every stored document",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openLibrary loads the configuration and constructs the library.
func openLibrary(c *cli.Context) (*studyowl.Library, error) {
	var cfg *config.AppConfig
	var err error

	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lib, err := studyowl.NewLibrary(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	path := c.Args().First()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	name := c.String("name")
	if name == "" {
		name = filepath.Base(path)
	}
	mimeType := c.String("mime")
	if mimeType == "" {
		mimeType = mimeFromExtension(path)
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	fmt.Fprintf(os.Stderr, "Processing %s (%s, %d bytes)...\n", name, mimeType, len(content))

	start := time.Now()
	doc, err := lib.IngestSync(c.Context, name, mimeType, content)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Printf("Document:  %s\n", doc.Id)
	fmt.Printf("Status:    %s\n", doc.Status)
	fmt.Printf("Pages:     %d\n", doc.PageCount)
	fmt.Printf("Duration:  %v\n", time.Since(start).Round(time.Millisecond))
	if doc.Status == core.StatusError {
		fmt.Printf("Error:     %s\n", doc.FailReason)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("expected a document id and a question")
	}
	docID := core.DocumentID(c.Args().First())
	question := strings.Join(c.Args().Tail(), " ")

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	var result *search.Result
	if c.Bool("verbose") {
		result, err = lib.RetrieveWithMonitor(c.Context, docID, question, c.Int("hits"), &stageMonitor{})
	} else {
		result, err = lib.Retrieve(c.Context, docID, question, c.Int("hits"))
	}
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if len(result.Chunks) == 0 {
		fmt.Println("No relevant passages found.")
		return nil
	}

	for i, scored := range result.Chunks {
		fmt.Printf("--- passage %d (score %.3f, page %d", i+1, scored.Score, scored.Chunk.PageNumber)
		if scored.Chunk.ChapterNumber > 0 {
			fmt.Printf(", chapter %d", scored.Chunk.ChapterNumber)
		}
		fmt.Println(") ---")
		fmt.Println(scored.Chunk.Text)
		fmt.Println()
	}
	if result.FromCache {
		fmt.Fprintln(os.Stderr, "(served from cache)")
	}
	return nil
}

func listCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	docs, err := lib.Documents(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("No documents stored.")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %-10s  %s\n", doc.Id, doc.Status, doc.Name)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document id argument")
	}
	docID := core.DocumentID(c.Args().First())

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx := c.Context
	doc, err := lib.Document(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	fmt.Printf("Document:  %s\n", doc.Id)
	fmt.Printf("Name:      %s\n", doc.Name)
	fmt.Printf("Status:    %s\n", doc.Status)
	fmt.Printf("Pages:     %d\n", doc.PageCount)
	fmt.Printf("Updated:   %s\n", doc.UpdatedAt.Format(time.RFC3339))
	if doc.FailReason != "" {
		fmt.Printf("Error:     %s\n", doc.FailReason)
	}
	if doc.Summary != "" {
		fmt.Printf("\n%s\n", doc.Summary)
	}

	chapters, err := lib.Chapters(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to load chapters: %w", err)
	}
	if len(chapters) > 0 {
		fmt.Printf("\nChapters (%d):\n", len(chapters))
		for _, ch := range chapters {
			fmt.Printf("  %3d. %s (%d questions)\n", ch.Number, ch.Title, len(ch.Questions))
		}
	}

	concepts, err := lib.Concepts(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to load concepts: %w", err)
	}
	if len(concepts) > 0 {
		fmt.Printf("\nConcepts: %d\n", len(concepts))
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document id argument")
	}
	docID := core.DocumentID(c.Args().First())

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	if err := lib.DeleteDocument(c.Context, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	fmt.Printf("Deleted %s\n", docID)
	return nil
}

func reindexCommand(c *cli.Context) error {
	all := c.Bool("all")
	if !all && c.NArg() != 1 {
		return fmt.Errorf("expected a document id, or --all")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	r, err := lib.NewReindexer(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reindexer: %w", err)
	}

	if all {
		return r.RunAll(c.Context)
	}
	return r.Run(c.Context, core.DocumentID(c.Args().First()))
}

// stageMonitor prints retrieval stages to stderr for ask --verbose.
type stageMonitor struct{}

var _ search.Monitor = (*stageMonitor)(nil)

func (m *stageMonitor) Start(query string) {
	fmt.Fprintf(os.Stderr, "retrieving: %q\n", query)
}

func (m *stageMonitor) CacheHit(results []core.ScoredChunk) {
	fmt.Fprintf(os.Stderr, "cache hit: %d results\n", len(results))
}

func (m *stageMonitor) AfterQueryEmbedding(dimension int) {
	fmt.Fprintf(os.Stderr, "query embedded (dimension %d)\n", dimension)
}

func (m *stageMonitor) AfterVectorSearch(matches []vectorstore.Match) {
	fmt.Fprintf(os.Stderr, "vector search: %d matches\n", len(matches))
}

func (m *stageMonitor) ChunkResolved(chunk *core.Chunk, score float32) {
	fmt.Fprintf(os.Stderr, "resolved chunk %d (score %.3f)\n", chunk.Index, score)
}

func (m *stageMonitor) ChunkMissing(id string) {
	fmt.Fprintf(os.Stderr, "dropped stale vector %s\n", id)
}

func (m *stageMonitor) Finish(results []core.ScoredChunk) {
	fmt.Fprintf(os.Stderr, "done: %d results\n", len(results))
}

// mimeFromExtension maps a file extension to one of the supported MIME
// types. Unknown extensions fall back to plain text, which the extractor
// accepts for any textual content.
func mimeFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extract.MimePDF
	case ".docx":
		return extract.MimeDOCX
	case ".md", ".markdown":
		return extract.MimeMD
	default:
		return extract.MimePlain
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
