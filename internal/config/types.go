// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

// Struct tags drive the schema check: the yaml tag names the key and
// `schema:"required"` marks keys that must be present. Every other key is
// optional. Keys not declared on the target struct are rejected.

// TrainingConfig is the root record of a recipe. It is immutable after Load.
type TrainingConfig struct {
	Nnet         string        `yaml:"nnet" schema:"required"`
	NnetConf     NetConf       `yaml:"nnet_conf" schema:"required"`
	Task         string        `yaml:"task" schema:"required"`
	TaskConf     TaskConf      `yaml:"task_conf,omitempty"`
	AsrTransform *AsrTransform `yaml:"asr_transform,omitempty"`
	EnhTransform *EnhTransform `yaml:"enh_transform,omitempty"`
	TrainerConf  TrainerConf   `yaml:"trainer_conf" schema:"required"`
	DataConf     DataConf      `yaml:"data_conf" schema:"required"`
}

// NetConf is the network configuration selected by the nnet tag.
type NetConf interface {
	// Variant returns the nnet tag this configuration belongs to.
	Variant() string
	// InputDim is the per-frame feature dimension the network consumes.
	InputDim() int
	// Vocab returns the output vocabulary settings shared by all variants.
	Vocab() *ModelVocab

	checkDomains(v *domainChecker)
	checkCross(v *crossChecker)
}

// TaskConf is the objective configuration selected by the task tag.
type TaskConf interface {
	Variant() string

	checkDomains(v *domainChecker)
}

// ModelVocab holds the output vocabulary parameters. They are normally
// injected from the token dictionary by BindVocab.
type ModelVocab struct {
	VocabSize int  `yaml:"vocab_size,omitempty"`
	SOS       *int `yaml:"sos,omitempty"`
	EOS       *int `yaml:"eos,omitempty"`
}

// Vocab implements part of NetConf for embedding structs.
func (m *ModelVocab) Vocab() *ModelVocab { return m }

// RNNEncoderKwargs configures recurrent encoders.
type RNNEncoderKwargs struct {
	RNN           string  `yaml:"rnn" schema:"required"`
	Hidden        int     `yaml:"hidden" schema:"required"`
	NumLayers     int     `yaml:"num_layers" schema:"required"`
	Bidirectional bool    `yaml:"bidirectional" schema:"required"`
	Dropout       float64 `yaml:"dropout" schema:"required"`
	Project       int     `yaml:"project,omitempty"`
}

// XfmrEncoderKwargs configures transformer encoders.
type XfmrEncoderKwargs struct {
	ProjLayer      string  `yaml:"proj_layer" schema:"required"`
	AttDim         int     `yaml:"att_dim" schema:"required"`
	NHead          int     `yaml:"nhead" schema:"required"`
	FeedforwardDim int     `yaml:"feedforward_dim" schema:"required"`
	PosDropout     float64 `yaml:"pos_dropout" schema:"required"`
	AttDropout     float64 `yaml:"att_dropout" schema:"required"`
	NumLayers      int     `yaml:"num_layers" schema:"required"`
}

// XfmrDecoderKwargs configures transformer decoders.
type XfmrDecoderKwargs struct {
	AttDim         int     `yaml:"att_dim" schema:"required"`
	NHead          int     `yaml:"nhead" schema:"required"`
	FeedforwardDim int     `yaml:"feedforward_dim" schema:"required"`
	PosDropout     float64 `yaml:"pos_dropout" schema:"required"`
	AttDropout     float64 `yaml:"att_dropout" schema:"required"`
	NumLayers      int     `yaml:"num_layers" schema:"required"`
}

// XfmrTransducerDecoderKwargs adds the joint network to a transformer decoder.
type XfmrTransducerDecoderKwargs struct {
	XfmrDecoderKwargs `yaml:",inline"`
	JotDim            int `yaml:"jot_dim" schema:"required"`
}

// AttDecoderKwargs configures the recurrent attention decoder.
type AttDecoderKwargs struct {
	DecRNN       string  `yaml:"dec_rnn" schema:"required"`
	RNNLayers    int     `yaml:"rnn_layers" schema:"required"`
	RNNHidden    int     `yaml:"rnn_hidden" schema:"required"`
	RNNDropout   float64 `yaml:"rnn_dropout,omitempty"`
	EmbDropout   float64 `yaml:"emb_dropout,omitempty"`
	Dropout      float64 `yaml:"dropout,omitempty"`
	InputFeeding bool    `yaml:"input_feeding,omitempty"`
	VocabEmbeded bool    `yaml:"vocab_embeded,omitempty"`
}

// AttentionKwargs configures the attention module of asr@att. Which optional
// keys are accepted depends on att_type.
type AttentionKwargs struct {
	AttDim      int `yaml:"att_dim" schema:"required"`
	AttChannels int `yaml:"att_channels,omitempty"`
	AttKernel   int `yaml:"att_kernel,omitempty"`
	AttHead     int `yaml:"att_head,omitempty"`
}

// RNNTransducerDecoderKwargs configures the prediction network of asr@transducer.
type RNNTransducerDecoderKwargs struct {
	EmbedSize  int     `yaml:"embed_size" schema:"required"`
	JotDim     int     `yaml:"jot_dim" schema:"required"`
	DecRNN     string  `yaml:"dec_rnn" schema:"required"`
	DecLayers  int     `yaml:"dec_layers" schema:"required"`
	DecHidden  int     `yaml:"dec_hidden" schema:"required"`
	DecDropout float64 `yaml:"dec_dropout,omitempty"`
}

// AttNetConf is the asr@att variant: recurrent encoder, attention, recurrent decoder.
type AttNetConf struct {
	ModelVocab `yaml:",inline"`
	InputSize  int              `yaml:"input_size" schema:"required"`
	EncType    string           `yaml:"enc_type" schema:"required"`
	EncProj    int              `yaml:"enc_proj" schema:"required"`
	EncKwargs  RNNEncoderKwargs `yaml:"enc_kwargs" schema:"required"`
	DecDim     int              `yaml:"dec_dim" schema:"required"`
	DecKwargs  AttDecoderKwargs `yaml:"dec_kwargs" schema:"required"`
	AttType    string           `yaml:"att_type" schema:"required"`
	AttKwargs  AttentionKwargs  `yaml:"att_kwargs" schema:"required"`
}

// XfmrNetConf is the asr@xfmr variant: transformer encoder-decoder.
type XfmrNetConf struct {
	ModelVocab `yaml:",inline"`
	InputSize  int               `yaml:"input_size" schema:"required"`
	EncType    string            `yaml:"enc_type" schema:"required"`
	EncKwargs  XfmrEncoderKwargs `yaml:"enc_kwargs" schema:"required"`
	DecKwargs  XfmrDecoderKwargs `yaml:"dec_kwargs" schema:"required"`
}

// XfmrTransducerNetConf is the asr@xfmr_transducer variant.
type XfmrTransducerNetConf struct {
	ModelVocab `yaml:",inline"`
	InputSize  int                         `yaml:"input_size" schema:"required"`
	EncType    string                      `yaml:"enc_type" schema:"required"`
	EncKwargs  XfmrEncoderKwargs           `yaml:"enc_kwargs" schema:"required"`
	DecKwargs  XfmrTransducerDecoderKwargs `yaml:"dec_kwargs" schema:"required"`
}

// RNNTransducerNetConf is the asr@transducer variant.
type RNNTransducerNetConf struct {
	ModelVocab `yaml:",inline"`
	InputSize  int                        `yaml:"input_size" schema:"required"`
	EncType    string                     `yaml:"enc_type" schema:"required"`
	EncProj    int                        `yaml:"enc_proj" schema:"required"`
	EncKwargs  RNNEncoderKwargs           `yaml:"enc_kwargs" schema:"required"`
	DecKwargs  RNNTransducerDecoderKwargs `yaml:"dec_kwargs" schema:"required"`
}

func (*AttNetConf) Variant() string            { return NnetAtt }
func (*XfmrNetConf) Variant() string           { return NnetXfmr }
func (*XfmrTransducerNetConf) Variant() string { return NnetXfmrTransducer }
func (*RNNTransducerNetConf) Variant() string  { return NnetTransducer }

func (c *AttNetConf) InputDim() int            { return c.InputSize }
func (c *XfmrNetConf) InputDim() int           { return c.InputSize }
func (c *XfmrTransducerNetConf) InputDim() int { return c.InputSize }
func (c *RNNTransducerNetConf) InputDim() int  { return c.InputSize }

// CtcXentTaskConf is the asr@ctc_xent objective: cross entropy with an
// auxiliary CTC loss.
type CtcXentTaskConf struct {
	LsmFactor float64 `yaml:"lsm_factor"`
	CtcWeight float64 `yaml:"ctc_weight"`
	Blank     *int    `yaml:"blank,omitempty"`
}

// TransducerTaskConf is the asr@transducer objective.
type TransducerTaskConf struct {
	Blank *int `yaml:"blank,omitempty"`
}

// CtcTaskConf is the asr@ctc objective.
type CtcTaskConf struct {
	Blank *int `yaml:"blank,omitempty"`
}

func (*CtcXentTaskConf) Variant() string    { return TaskCtcXent }
func (*TransducerTaskConf) Variant() string { return TaskTransducer }
func (*CtcTaskConf) Variant() string        { return TaskCtc }

// AsrTransform describes the on-the-fly feature extraction pipeline.
// Absent keys keep the defaults of DefaultAsrTransform.
type AsrTransform struct {
	Feats          string  `yaml:"feats" schema:"required"`
	FrameLen       int     `yaml:"frame_len"`
	FrameHop       int     `yaml:"frame_hop"`
	Window         string  `yaml:"window"`
	RoundPowOfTwo  bool    `yaml:"round_pow_of_two"`
	SampleRate     int     `yaml:"sr"`
	NumMels        int     `yaml:"num_mels"`
	NumCeps        int     `yaml:"num_ceps"`
	Lifter         float64 `yaml:"lifter"`
	NormMean       bool    `yaml:"norm_mean"`
	NormVar        bool    `yaml:"norm_var"`
	AugProb        float64 `yaml:"aug_prob"`
	WrapStep       int     `yaml:"wrap_step"`
	MaskBand       int     `yaml:"mask_band"`
	MaskStep       int     `yaml:"mask_step"`
	NumAugBands    int     `yaml:"num_aug_bands"`
	NumAugSteps    int     `yaml:"num_aug_steps"`
	LeftContext    int     `yaml:"lctx"`
	RightContext   int     `yaml:"rctx"`
	DownsampleRate int     `yaml:"ds_rate"`
	DeltaContext   int     `yaml:"delta_ctx"`
	DeltaOrder     int     `yaml:"delta_order"`
	PreEmphasis    float64 `yaml:"pre_emphasis,omitempty"`
}

// DefaultAsrTransform returns the defaults of the framework's feature transform.
func DefaultAsrTransform() AsrTransform {
	return AsrTransform{
		Feats:          "fbank-log-cmvn",
		FrameLen:       400,
		FrameHop:       160,
		Window:         "hamm",
		RoundPowOfTwo:  true,
		SampleRate:     16000,
		NumMels:        80,
		NumCeps:        13,
		NormMean:       true,
		NormVar:        true,
		WrapStep:       4,
		MaskBand:       30,
		MaskStep:       40,
		NumAugBands:    2,
		NumAugSteps:    2,
		LeftContext:    1,
		RightContext:   1,
		DownsampleRate: 1,
		DeltaContext:   2,
		DeltaOrder:     2,
	}
}

// EnhTransform configures the multi-channel front-end that feeds an
// enhancement stage ahead of the recogniser. It runs on raw waveforms.
type EnhTransform struct {
	Feats         string  `yaml:"feats" schema:"required"`
	FrameLen      int     `yaml:"frame_len"`
	FrameHop      int     `yaml:"frame_hop"`
	Window        string  `yaml:"window"`
	RoundPowOfTwo bool    `yaml:"round_pow_of_two"`
	SampleRate    int     `yaml:"sr"`
	NumMels       int     `yaml:"num_mels"`
	NormMean      bool    `yaml:"norm_mean"`
	NormVar       bool    `yaml:"norm_var"`
	AugProb       float64 `yaml:"aug_prob"`
	// IPDIndex lists microphone pairs as "i,j" separated by ";".
	IPDIndex string `yaml:"ipd_index,omitempty"`
	CosIPD   bool   `yaml:"cos_ipd"`
}

// DefaultEnhTransform returns the front-end defaults for keys a recipe omits.
func DefaultEnhTransform() EnhTransform {
	return EnhTransform{
		Feats:         "spectrogram-log-cmvn",
		FrameLen:      512,
		FrameHop:      256,
		Window:        "sqrthann",
		RoundPowOfTwo: true,
		SampleRate:    16000,
		NumMels:       80,
		NormMean:      true,
		NormVar:       true,
		CosIPD:        true,
	}
}

// TrainerConf holds optimizer, scheduler and early-stop settings.
type TrainerConf struct {
	Optimizer         string         `yaml:"optimizer" schema:"required"`
	OptimizerKwargs   map[string]any `yaml:"optimizer_kwargs,omitempty"`
	LRScheduler       string         `yaml:"lr_scheduler,omitempty"`
	LRSchedulerPeriod string         `yaml:"lr_scheduler_period,omitempty"`
	LRSchedulerKwargs map[string]any `yaml:"lr_scheduler_kwargs,omitempty"`
	NoImpr            int            `yaml:"no_impr"`
	NoImprThres       float64        `yaml:"no_impr_thres"`
	ClipGradient      float64        `yaml:"clip_gradient,omitempty"`
	ReportMetrics     []string       `yaml:"report_metrics" schema:"required"`
	StopCriterion     string         `yaml:"stop_criterion" schema:"required"`
}

// DefaultTrainerConf returns the trainer defaults for keys a recipe may omit.
func DefaultTrainerConf() TrainerConf {
	return TrainerConf{
		NoImpr:      6,
		NoImprThres: 0,
	}
}

// DataConf describes the dataset and loader limits.
type DataConf struct {
	Fmt    string     `yaml:"fmt" schema:"required"`
	Loader LoaderConf `yaml:"loader" schema:"required"`
	Train  DataSplit  `yaml:"train" schema:"required"`
	Valid  DataSplit  `yaml:"valid" schema:"required"`
}

// LoaderConf holds batching limits. Durations are in seconds.
type LoaderConf struct {
	MaxTokenNum   int     `yaml:"max_token_num" schema:"required"`
	AdaptTokenNum int     `yaml:"adapt_token_num" schema:"required"`
	MaxDur        float64 `yaml:"max_dur" schema:"required"`
	MinDur        float64 `yaml:"min_dur" schema:"required"`
	AdaptDur      float64 `yaml:"adapt_dur" schema:"required"`
	BatchMode     string  `yaml:"batch_mode,omitempty"`
	MinBatchSize  int     `yaml:"min_batch_size,omitempty"`
}

// DataSplit is one dataset split. Which of WavScp and FeatsScp is required
// depends on the data format.
type DataSplit struct {
	WavScp   string `yaml:"wav_scp,omitempty"`
	FeatsScp string `yaml:"feats_scp,omitempty"`
	Utt2Dur  string `yaml:"utt2dur" schema:"required"`
	Text     string `yaml:"text" schema:"required"`
}
