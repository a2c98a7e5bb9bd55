package records

import (
	"math"

	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/primitives"
)

// Payload is implemented by every typed record body in the §4.6 table:
// Parse decodes a record body and Bytes encodes one. The type code that
// selects a Payload is carried by RecordHeader.Type and mapped to a
// Payload by NewPayload.
type Payload interface {
	Parse(data []byte) error
	Bytes() []byte
}

// Sgmt is the segment-boundary record (§4.6): 48 fixed bytes plus an
// optional free-text description. Session/channel-level Sgmt records are
// the fast path hierarchy.ConditionTimeSlice uses to resolve a time
// slice without opening segment metadata.
type Sgmt struct {
	StartTime          int64
	EndTime            int64
	StartSample        uint64
	EndSample          uint64
	SegmentNumber      int32
	AcquisitionChannel uint32
	SamplingFrequency  float64
	Description        string
}

const SgmtFixedSize = 48

func (s *Sgmt) Parse(data []byte) error {
	if len(data) < SgmtFixedSize {
		return errs.ErrTruncated
	}

	e := primitives.Wire
	s.StartTime = int64(e.Uint64(data[0:]))
	s.EndTime = int64(e.Uint64(data[8:]))
	s.StartSample = e.Uint64(data[16:])
	s.EndSample = e.Uint64(data[24:])
	s.SegmentNumber = int32(e.Uint32(data[32:]))
	s.AcquisitionChannel = e.Uint32(data[36:])
	s.SamplingFrequency = math.Float64frombits(e.Uint64(data[40:]))
	s.Description = string(data[SgmtFixedSize:])

	return nil
}

func (s *Sgmt) Bytes() []byte {
	b := make([]byte, SgmtFixedSize+len(s.Description))
	e := primitives.Wire
	e.PutUint64(b[0:], uint64(s.StartTime))
	e.PutUint64(b[8:], uint64(s.EndTime))
	e.PutUint64(b[16:], s.StartSample)
	e.PutUint64(b[24:], s.EndSample)
	e.PutUint32(b[32:], uint32(s.SegmentNumber))
	e.PutUint32(b[36:], s.AcquisitionChannel)
	e.PutUint64(b[40:], math.Float64bits(s.SamplingFrequency))
	copy(b[SgmtFixedSize:], s.Description)

	return b
}

// Stat is the 32-byte summary-statistics record (§4.6): eight packed
// float32 values (min/max/mean/median/mode/variance/skewness/kurtosis).
type Stat struct {
	Min, Max, Mean, Median, Mode, Variance, Skewness, Kurtosis float32
}

const StatSize = 32

func (s *Stat) Parse(data []byte) error {
	if len(data) < StatSize {
		return errs.ErrTruncated
	}

	e := primitives.Wire
	vals := []*float32{&s.Min, &s.Max, &s.Mean, &s.Median, &s.Mode, &s.Variance, &s.Skewness, &s.Kurtosis}
	for i, v := range vals {
		*v = math.Float32frombits(e.Uint32(data[i*4:]))
	}

	return nil
}

func (s *Stat) Bytes() []byte {
	b := make([]byte, StatSize)
	e := primitives.Wire
	vals := []float32{s.Min, s.Max, s.Mean, s.Median, s.Mode, s.Variance, s.Skewness, s.Kurtosis}
	for i, v := range vals {
		e.PutUint32(b[i*4:], math.Float32bits(v))
	}

	return b
}

// Note is a free-text UTF-8 annotation (§4.6), entirely variable-length.
type Note struct {
	Text string
}

func (n *Note) Parse(data []byte) error {
	n.Text = string(data)
	return nil
}

func (n *Note) Bytes() []byte { return []byte(n.Text) }

// EDFA is a European Data Format annotation (§4.6): an 8-byte duration
// in microseconds followed by UTF-8 text.
type EDFA struct {
	DurationUUTC int64
	Text         string
}

const EDFAFixedSize = 8

func (r *EDFA) Parse(data []byte) error {
	if len(data) < EDFAFixedSize {
		return errs.ErrTruncated
	}

	r.DurationUUTC = int64(primitives.Wire.Uint64(data[0:]))
	r.Text = string(data[EDFAFixedSize:])

	return nil
}

func (r *EDFA) Bytes() []byte {
	b := make([]byte, EDFAFixedSize+len(r.Text))
	primitives.Wire.PutUint64(b[0:], uint64(r.DurationUUTC))
	copy(b[EDFAFixedSize:], r.Text)

	return b
}

// SyLg is a free-text system-log record (§4.6), entirely variable-length.
type SyLg struct {
	Text string
}

func (s *SyLg) Parse(data []byte) error {
	s.Text = string(data)
	return nil
}

func (s *SyLg) Bytes() []byte { return []byte(s.Text) }

// NlxP is a 16-byte parallel-port trigger record (§4.6).
type NlxP struct {
	Value       int32
	Subport     int32
	TriggerMode int32
}

const NlxPSize = 16

func (n *NlxP) Parse(data []byte) error {
	if len(data) < NlxPSize {
		return errs.ErrTruncated
	}

	e := primitives.Wire
	n.Value = int32(e.Uint32(data[0:]))
	n.Subport = int32(e.Uint32(data[4:]))
	n.TriggerMode = int32(e.Uint32(data[8:]))

	return nil
}

func (n *NlxP) Bytes() []byte {
	b := make([]byte, NlxPSize)
	e := primitives.Wire
	e.PutUint32(b[0:], uint32(n.Value))
	e.PutUint32(b[4:], uint32(n.Subport))
	e.PutUint32(b[8:], uint32(n.TriggerMode))

	return b
}

// Curs is a 160-byte cursor-annotation record (§4.6).
type Curs struct {
	ID      uint64
	Latency int64
	Value   float64
	Name    string
}

const (
	CursSize     = 160
	cursNameSize = CursSize - 24
)

func (c *Curs) Parse(data []byte) error {
	if len(data) < CursSize {
		return errs.ErrTruncated
	}

	e := primitives.Wire
	c.ID = e.Uint64(data[0:])
	c.Latency = int64(e.Uint64(data[8:]))
	c.Value = math.Float64frombits(e.Uint64(data[16:]))
	c.Name = primitives.ParseFixedUTF8Field(data[24 : 24+cursNameSize])

	return nil
}

func (c *Curs) Bytes() []byte {
	b := make([]byte, CursSize)
	e := primitives.Wire
	e.PutUint64(b[0:], c.ID)
	e.PutUint64(b[8:], uint64(c.Latency))
	e.PutUint64(b[16:], math.Float64bits(c.Value))
	copy(b[24:24+cursNameSize], primitives.FixedUTF8Field(c.Name, cursNameSize))

	return b
}

// Epoc is a 176-byte sleep-stage epoch record (§4.6).
type Epoc struct {
	ID        uint64
	EndTime   int64
	EpochType string
	Text      string
}

const (
	EpocSize         = 176
	epocTypeSize     = 32
	epocTextSize     = EpocSize - 16 - epocTypeSize
	epocOffsetType   = 16
	epocOffsetText   = epocOffsetType + epocTypeSize
)

func (e *Epoc) Parse(data []byte) error {
	if len(data) < EpocSize {
		return errs.ErrTruncated
	}

	wire := primitives.Wire
	e.ID = wire.Uint64(data[0:])
	e.EndTime = int64(wire.Uint64(data[8:]))
	e.EpochType = primitives.ParseFixedUTF8Field(data[epocOffsetType : epocOffsetType+epocTypeSize])
	e.Text = primitives.ParseFixedUTF8Field(data[epocOffsetText : epocOffsetText+epocTextSize])

	return nil
}

func (e *Epoc) Bytes() []byte {
	b := make([]byte, EpocSize)
	wire := primitives.Wire
	wire.PutUint64(b[0:], e.ID)
	wire.PutUint64(b[8:], uint64(e.EndTime))
	copy(b[epocOffsetType:epocOffsetType+epocTypeSize], primitives.FixedUTF8Field(e.EpochType, epocTypeSize))
	copy(b[epocOffsetText:epocOffsetText+epocTextSize], primitives.FixedUTF8Field(e.Text, epocTextSize))

	return b
}

// ESti is a 416-byte electrical-stimulation record (§4.6).
type ESti struct {
	Amplitude   float64
	Frequency   float64
	PulseWidth  float64
	Mode        string
	WaveformName string
	AnodeName   string
	CathodeName string
}

const (
	EStiSize           = 416
	estiModeSize       = 32
	estiWaveformSize   = 128
	estiAnodeSize      = 96
	estiCathodeSize    = EStiSize - 24 - estiModeSize - estiWaveformSize - estiAnodeSize

	estiOffsetMode     = 24
	estiOffsetWaveform = estiOffsetMode + estiModeSize
	estiOffsetAnode    = estiOffsetWaveform + estiWaveformSize
	estiOffsetCathode  = estiOffsetAnode + estiAnodeSize
)

func (s *ESti) Parse(data []byte) error {
	if len(data) < EStiSize {
		return errs.ErrTruncated
	}

	e := primitives.Wire
	s.Amplitude = math.Float64frombits(e.Uint64(data[0:]))
	s.Frequency = math.Float64frombits(e.Uint64(data[8:]))
	s.PulseWidth = math.Float64frombits(e.Uint64(data[16:]))
	s.Mode = primitives.ParseFixedUTF8Field(data[estiOffsetMode : estiOffsetMode+estiModeSize])
	s.WaveformName = primitives.ParseFixedUTF8Field(data[estiOffsetWaveform : estiOffsetWaveform+estiWaveformSize])
	s.AnodeName = primitives.ParseFixedUTF8Field(data[estiOffsetAnode : estiOffsetAnode+estiAnodeSize])
	s.CathodeName = primitives.ParseFixedUTF8Field(data[estiOffsetCathode : estiOffsetCathode+estiCathodeSize])

	return nil
}

func (s *ESti) Bytes() []byte {
	b := make([]byte, EStiSize)
	e := primitives.Wire
	e.PutUint64(b[0:], math.Float64bits(s.Amplitude))
	e.PutUint64(b[8:], math.Float64bits(s.Frequency))
	e.PutUint64(b[16:], math.Float64bits(s.PulseWidth))
	copy(b[estiOffsetMode:estiOffsetMode+estiModeSize], primitives.FixedUTF8Field(s.Mode, estiModeSize))
	copy(b[estiOffsetWaveform:estiOffsetWaveform+estiWaveformSize], primitives.FixedUTF8Field(s.WaveformName, estiWaveformSize))
	copy(b[estiOffsetAnode:estiOffsetAnode+estiAnodeSize], primitives.FixedUTF8Field(s.AnodeName, estiAnodeSize))
	copy(b[estiOffsetCathode:estiOffsetCathode+estiCathodeSize], primitives.FixedUTF8Field(s.CathodeName, estiCathodeSize))

	return b
}

// CSti is a 208-byte cognitive-stimulation record (§4.6).
type CSti struct {
	TaskName     string
	StimulusName string
	ResponseName string
}

const (
	CStiSize            = 208
	cstiTaskSize        = 80
	cstiStimulusSize    = 80
	cstiResponseSize    = CStiSize - cstiTaskSize - cstiStimulusSize

	cstiOffsetTask     = 0
	cstiOffsetStimulus = cstiOffsetTask + cstiTaskSize
	cstiOffsetResponse = cstiOffsetStimulus + cstiStimulusSize
)

func (c *CSti) Parse(data []byte) error {
	if len(data) < CStiSize {
		return errs.ErrTruncated
	}

	c.TaskName = primitives.ParseFixedUTF8Field(data[cstiOffsetTask : cstiOffsetTask+cstiTaskSize])
	c.StimulusName = primitives.ParseFixedUTF8Field(data[cstiOffsetStimulus : cstiOffsetStimulus+cstiStimulusSize])
	c.ResponseName = primitives.ParseFixedUTF8Field(data[cstiOffsetResponse : cstiOffsetResponse+cstiResponseSize])

	return nil
}

func (c *CSti) Bytes() []byte {
	b := make([]byte, CStiSize)
	copy(b[cstiOffsetTask:cstiOffsetTask+cstiTaskSize], primitives.FixedUTF8Field(c.TaskName, cstiTaskSize))
	copy(b[cstiOffsetStimulus:cstiOffsetStimulus+cstiStimulusSize], primitives.FixedUTF8Field(c.StimulusName, cstiStimulusSize))
	copy(b[cstiOffsetResponse:cstiOffsetResponse+cstiResponseSize], primitives.FixedUTF8Field(c.ResponseName, cstiResponseSize))

	return b
}

// SeizChannel is one 280-byte per-channel block within a Seiz record.
type SeizChannel struct {
	ChannelNumber      uint32
	OnsetTime          int64
	OffsetTime         int64
	ChannelName        string
}

const (
	SeizChannelSize        = 280
	seizChanNameSize       = SeizChannelSize - 4 - 8 - 8 - 4 // trailing 4 bytes reserved
	seizChanOffsetNumber   = 0
	seizChanOffsetOnset    = 4
	seizChanOffsetOffset   = 12
	seizChanOffsetName     = 20
)

func (c *SeizChannel) Parse(data []byte) error {
	if len(data) < SeizChannelSize {
		return errs.ErrTruncated
	}

	e := primitives.Wire
	c.ChannelNumber = e.Uint32(data[seizChanOffsetNumber:])
	c.OnsetTime = int64(e.Uint64(data[seizChanOffsetOnset:]))
	c.OffsetTime = int64(e.Uint64(data[seizChanOffsetOffset:]))
	c.ChannelName = primitives.ParseFixedUTF8Field(data[seizChanOffsetName : seizChanOffsetName+seizChanNameSize])

	return nil
}

func (c *SeizChannel) Bytes() []byte {
	b := make([]byte, SeizChannelSize)
	e := primitives.Wire
	e.PutUint32(b[seizChanOffsetNumber:], c.ChannelNumber)
	e.PutUint64(b[seizChanOffsetOnset:], uint64(c.OnsetTime))
	e.PutUint64(b[seizChanOffsetOffset:], uint64(c.OffsetTime))
	copy(b[seizChanOffsetName:seizChanOffsetName+seizChanNameSize], primitives.FixedUTF8Field(c.ChannelName, seizChanNameSize))

	return b
}

// Seiz is the seizure-onset/offset record (§4.6): a 1296-byte fixed
// portion plus ChannelCount trailing 280-byte SeizChannel blocks.
type Seiz struct {
	OnsetTime             int64
	OffsetTime            int64
	OnsetClassification   string
	Description           string
	Channels              []SeizChannel
}

const (
	SeizFixedSize        = 1296
	seizClassSize        = 64
	seizDescSize         = 1024
	seizOffsetClass      = 16
	seizOffsetDesc       = seizOffsetClass + seizClassSize
	seizOffsetChanCount  = seizOffsetDesc + seizDescSize
)

func (s *Seiz) Parse(data []byte) error {
	if len(data) < SeizFixedSize {
		return errs.ErrTruncated
	}

	e := primitives.Wire
	s.OnsetTime = int64(e.Uint64(data[0:]))
	s.OffsetTime = int64(e.Uint64(data[8:]))
	s.OnsetClassification = primitives.ParseFixedUTF8Field(data[seizOffsetClass : seizOffsetClass+seizClassSize])
	s.Description = primitives.ParseFixedUTF8Field(data[seizOffsetDesc : seizOffsetDesc+seizDescSize])
	channelCount := e.Uint32(data[seizOffsetChanCount:])

	need := SeizFixedSize + int(channelCount)*SeizChannelSize
	if len(data) < need {
		return errs.ErrTruncated
	}

	s.Channels = make([]SeizChannel, channelCount)
	for i := range s.Channels {
		off := SeizFixedSize + i*SeizChannelSize
		if err := s.Channels[i].Parse(data[off : off+SeizChannelSize]); err != nil {
			return err
		}
	}

	return nil
}

func (s *Seiz) Bytes() []byte {
	b := make([]byte, SeizFixedSize+len(s.Channels)*SeizChannelSize)
	e := primitives.Wire
	e.PutUint64(b[0:], uint64(s.OnsetTime))
	e.PutUint64(b[8:], uint64(s.OffsetTime))
	copy(b[seizOffsetClass:seizOffsetClass+seizClassSize], primitives.FixedUTF8Field(s.OnsetClassification, seizClassSize))
	copy(b[seizOffsetDesc:seizOffsetDesc+seizDescSize], primitives.FixedUTF8Field(s.Description, seizDescSize))
	e.PutUint32(b[seizOffsetChanCount:], uint32(len(s.Channels)))

	for i, ch := range s.Channels {
		off := SeizFixedSize + i*SeizChannelSize
		copy(b[off:off+SeizChannelSize], ch.Bytes())
	}

	return b
}
