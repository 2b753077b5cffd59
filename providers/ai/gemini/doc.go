// Package gemini adapts Google's Gemini generateContent API to the generic
// [ai.ChatAdapter] contract.
//
// Gemini differs from the other backends in that function calls carry no
// upstream id; this adapter synthesizes stable per-response ids so tool
// results can still be correlated. Function responses are sent back as
// functionResponse parts keyed by function name.
package gemini
