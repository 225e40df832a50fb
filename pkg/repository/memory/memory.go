package memory

import (
	"sync"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/domain/model/session"
	"github.com/feelcast/feelcast/pkg/domain/model/user"
	"github.com/feelcast/feelcast/pkg/domain/model/voice"
	"github.com/feelcast/feelcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Memory is an in-process repository. Values are copied on the way in and
// out so callers never share state with the store.
type Memory struct {
	voiceMu   sync.RWMutex
	sessionMu sync.RWMutex
	userMu    sync.RWMutex

	voices        map[types.VoiceID]*voice.Voice
	voicesByKey   map[types.PromptKey]types.VoiceID
	sessions      map[types.SessionID]*session.Session
	users         map[types.UserID]*user.User
	usersBySocial map[string]types.UserID

	// Call counter for tracking method invocations
	callCounts map[string]int
	callMu     sync.RWMutex

	eb *goerr.Builder
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		voices:        make(map[types.VoiceID]*voice.Voice),
		voicesByKey:   make(map[types.PromptKey]types.VoiceID),
		sessions:      make(map[types.SessionID]*session.Session),
		users:         make(map[types.UserID]*user.User),
		usersBySocial: make(map[string]types.UserID),
		callCounts:    make(map[string]int),
		eb:            goerr.NewBuilder(goerr.TV(errs.RepositoryKey, "memory")),
	}
}

func (r *Memory) incrementCallCount(methodName string) {
	r.callMu.Lock()
	defer r.callMu.Unlock()
	r.callCounts[methodName]++
}

// GetCallCount returns the number of times a method has been called
func (r *Memory) GetCallCount(methodName string) int {
	r.callMu.RLock()
	defer r.callMu.RUnlock()
	return r.callCounts[methodName]
}
