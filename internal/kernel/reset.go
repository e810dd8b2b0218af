package kernel

import (
	"github.com/biotica/biotica/internal/config"
	"github.com/biotica/biotica/internal/genesis"
	"github.com/biotica/biotica/internal/presets"
)

// ResetSimulation rebuilds the kernel in place from a new seed, applying
// patch through WorldGenesis acceptance exactly once (§4.11). It issues a
// fresh reset token; any async setup task still carrying the prior token
// must check genesis.Tokens.Valid before committing (§5).
func (k *Kernel) ResetSimulation(seed int32, width, height int, patch presets.Patch, params CreateParams, reasonCodes []string) genesis.Token {
	summary := genesis.Accept(config.DefaultTuning(), patch, reasonCodes)

	fresh := New(seed, width, height, summary.Applied, params)
	fresh.Tokens = k.Tokens
	tok := fresh.Tokens.Next()
	fresh.resetToken = tok

	*k = *fresh
	genesis.LogAccept(k.Log, 0, summary)
	return tok
}

// CurrentResetToken returns the token guarding the current simulation
// generation; async tasks started before a reset compare their captured
// token against this via genesis.Tokens.Valid.
func (k *Kernel) CurrentResetToken() genesis.Token { return k.resetToken }
