package prompt

import (
	"strconv"

	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Content is a canonical prompt text. Values are only obtained from the
// catalog and are never mutated.
type Content struct {
	Key    types.PromptKey  `json:"key" firestore:"key"`
	Number int              `json:"number" firestore:"number"`
	Kind   types.PromptKind `json:"kind" firestore:"kind"`
	Text   string           `json:"text" firestore:"text"`
}

// catalog is the closed set of prompts. Fixed prompts are asked in every
// session, pool prompts rotate.
var catalog = [...]Content{
	{Key: "fixed-today", Number: 1, Kind: types.PromptKindFixed, Text: "How was your day today?"},
	{Key: "fixed-feeling", Number: 2, Kind: types.PromptKindFixed, Text: "How are you feeling right now?"},
	{Key: "pool-meal", Number: 3, Kind: types.PromptKindPool, Text: "What did you have to eat today, and did you enjoy it?"},
	{Key: "pool-sleep", Number: 4, Kind: types.PromptKindPool, Text: "How well did you sleep last night?"},
	{Key: "pool-people", Number: 5, Kind: types.PromptKindPool, Text: "Who did you talk to today?"},
	{Key: "pool-grateful", Number: 6, Kind: types.PromptKindPool, Text: "Is there something you are grateful for today?"},
	{Key: "pool-worry", Number: 7, Kind: types.PromptKindPool, Text: "Is anything worrying you these days?"},
	{Key: "pool-smile", Number: 8, Kind: types.PromptKindPool, Text: "What made you smile recently?"},
	{Key: "pool-tomorrow", Number: 9, Kind: types.PromptKindPool, Text: "What are you looking forward to tomorrow?"},
	{Key: "pool-body", Number: 10, Kind: types.PromptKindPool, Text: "How does your body feel today?"},
}

// All returns every prompt of the catalog in ordinal order.
func All() []Content {
	out := make([]Content, len(catalog))
	copy(out, catalog[:])
	return out
}

func Fixed() []Content {
	return filter(types.PromptKindFixed)
}

func Pool() []Content {
	return filter(types.PromptKindPool)
}

func filter(kind types.PromptKind) []Content {
	var out []Content
	for _, c := range catalog {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Lookup returns the catalog entry for key.
func Lookup(key types.PromptKey) (Content, error) {
	for _, c := range catalog {
		if c.Key == key {
			return c, nil
		}
	}
	return Content{}, goerr.New("unknown prompt key",
		goerr.TV(errs.PromptKeyKey, key),
		goerr.T(errs.TagNotFound))
}

func (x Content) Validate() error {
	c, err := Lookup(x.Key)
	if err != nil {
		return err
	}
	if c != x {
		return goerr.New("prompt content does not match catalog",
			goerr.TV(errs.PromptKeyKey, x.Key),
			goerr.T(errs.TagInvalidArgument))
	}
	return nil
}

// StoredName is the blob name of the synthesized voice. It only depends on
// the prompt so repeated synthesis overwrites the same object.
func (x Content) StoredName(ext string) string {
	name := "voice-question" + strconv.Itoa(x.Number)
	if ext == "" {
		return name
	}
	return name + "." + ext
}
