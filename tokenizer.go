package main

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts tokens in a piece of text.
type Tokenizer interface {
	CountTokens(text string) int
}

// --- Tiktoken Wrapper ---

// TiktokenWrapper adapts tiktoken-go to Tokenizer.
type TiktokenWrapper struct {
	ttk *tiktoken.Tiktoken
}

func (w *TiktokenWrapper) CountTokens(text string) int {
	if w.ttk == nil {
		return 0
	}
	// Special tokens are counted as plain text
	return len(w.ttk.EncodeOrdinary(text))
}

// --- Tokenizer Loading Logic ---

const defaultTiktokenModel = "gpt-4o"

// loadTiktoken resolves the encoding for model, falling back to the default
// model when the name is unknown. tiktoken-go fetches the BPE ranks on first
// use and caches them under TIKTOKEN_CACHE_DIR.
func loadTiktoken(model string, log *statusLogger) (Tokenizer, error) {
	if model == "" {
		model = defaultTiktokenModel
	}

	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		log.Warnf("tiktoken model '%s' not found, falling back to '%s': %v", model, defaultTiktokenModel, err)
		tke, err = tiktoken.EncodingForModel(defaultTiktokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoding for default model '%s': %w", defaultTiktokenModel, err)
		}
	}
	return &TiktokenWrapper{ttk: tke}, nil
}

// --- Token Counting ---

// countTokens fills in TokenCount for every file. Contents must be loaded.
func countTokens(tk Tokenizer, files []FileEntry) {
	for i := range files {
		// Empty files have nothing to encode
		if files[i].Size == 0 {
			files[i].TokenCount = 0
			continue
		}
		files[i].TokenCount = tk.CountTokens(fileContent(files[i]))
	}
}
