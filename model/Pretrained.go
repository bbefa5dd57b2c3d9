package model

import "github.com/PoJason/open-chatgpt/codec"

// PretrainedLanguageModel loads tokenizers and already-trained
// language models by name. Weight formats and storage locations are
// the loader's concern; this package only consumes the loaded
// capabilities.
type PretrainedLanguageModel interface {
	LoadTokenizer(name string) (codec.Codec, error)
	LoadCausalModel(name string) (CausalModel, error)
	LoadEncoderModel(name string) (EncoderModel, error)
}
