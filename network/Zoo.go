package network

import (
	"fmt"

	"github.com/PoJason/open-chatgpt/codec"
	"github.com/PoJason/open-chatgpt/model"
)

// Zoo implements model.PretrainedLanguageModel over an in-process
// registry of LinearLM weights and codecs. A LinearLM registered under
// a name serves both as that name's causal model and as its encoder.
type Zoo struct {
	models map[string]*LinearLM
	codecs map[string]codec.Codec
}

// NewZoo returns a new empty model registry.
func NewZoo() *Zoo {
	return &Zoo{
		models: make(map[string]*LinearLM),
		codecs: make(map[string]codec.Codec),
	}
}

// Register adds a model and its codec to the registry under name,
// replacing any previous registration.
func (z *Zoo) Register(name string, lm *LinearLM, c codec.Codec) {
	z.models[name] = lm
	z.codecs[name] = c
}

// LoadTokenizer returns the codec registered under name.
func (z *Zoo) LoadTokenizer(name string) (codec.Codec, error) {
	c, ok := z.codecs[name]
	if !ok {
		return nil, fmt.Errorf("loadtokenizer: no codec registered for %q",
			name)
	}
	return c, nil
}

// LoadCausalModel returns the model registered under name as a causal
// generative model.
func (z *Zoo) LoadCausalModel(name string) (model.CausalModel, error) {
	lm, ok := z.models[name]
	if !ok {
		return nil, fmt.Errorf("loadcausalmodel: no model registered for %q",
			name)
	}
	return lm, nil
}

// LoadEncoderModel returns the model registered under name as an
// encoder.
func (z *Zoo) LoadEncoderModel(name string) (model.EncoderModel, error) {
	lm, ok := z.models[name]
	if !ok {
		return nil, fmt.Errorf("loadencodermodel: no model registered "+
			"for %q", name)
	}
	return lm, nil
}
