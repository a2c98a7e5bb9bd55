package hierarchy

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/MEDFormat/MEDC-sub005/errs"
	"github.com/MEDFormat/MEDC-sub005/fps"
	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/medstate"
	"github.com/MEDFormat/MEDC-sub005/records"
)

const (
	sessionDirSuffix       = ".medd"
	timeSeriesChannelSuffix = ".ticd"
	videoChannelSuffix      = ".vicd"
)

var segmentDirPattern = regexp.MustCompile(`^(.+)_s(\d{4})\.(tisd|visd)$`)

// GetSessionDirectory resolves a session directory from either the
// session directory itself or any path inside it, walking up parents
// until a ".medd"-suffixed directory is found (§4.7 step 1).
func GetSessionDirectory(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("hierarchy: %w", err)
	}

	dir := abs
	if !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		if strings.HasSuffix(dir, sessionDirSuffix) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errs.ErrNotASession
		}

		dir = parent
	}
}

// Open walks the on-disk hierarchy rooted at a session directory (or any
// path inside it), reading metadata and records per opts, and returns
// the assembled Session (§4.7 steps 1-4).
func Open(path string, opts OpenOptions, behavior medstate.Behavior) (*Session, error) {
	sessionDir, err := GetSessionDirectory(path)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: %w", err)
	}

	session := &Session{
		Path:             sessionDir,
		Name:             strings.TrimSuffix(filepath.Base(sessionDir), sessionDirSuffix),
		ReferenceChannel: NoSegment,
	}

	if dataPath, indexPath, ok := findRecordPair(sessionDir); ok {
		stream, err := readRecordStream(dataPath, indexPath, behavior)
		if err != nil {
			return nil, err
		}

		session.Records = stream
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		channelDir := filepath.Join(sessionDir, name)

		var kind layout.ChannelKind

		switch {
		case strings.HasSuffix(name, timeSeriesChannelSuffix):
			if !opts.Flags.Has(IncludeTimeSeries) {
				continue
			}

			kind = layout.ChannelKindTimeSeries
		case strings.HasSuffix(name, videoChannelSuffix):
			if !opts.Flags.Has(IncludeVideo) {
				continue
			}

			kind = layout.ChannelKindVideo
		default:
			continue
		}

		channel, err := openChannel(channelDir, name, kind, behavior)
		if err != nil {
			return nil, err
		}

		session.Channels = append(session.Channels, *channel)
	}

	if opts.ReferenceChannel != "" {
		for i := range session.Channels {
			if session.Channels[i].Name == opts.ReferenceChannel {
				session.ReferenceChannel = i
				break
			}
		}
	} else if len(session.Channels) > 0 {
		session.ReferenceChannel = 0
	}

	session.indexSegmentCache()

	return session, nil
}

func openChannel(channelDir, dirName string, kind layout.ChannelKind, behavior medstate.Behavior) (*Channel, error) {
	suffix := timeSeriesChannelSuffix
	if kind == layout.ChannelKindVideo {
		suffix = videoChannelSuffix
	}

	channel := &Channel{
		Name: strings.TrimSuffix(dirName, suffix),
		Path: channelDir,
		Kind: kind,
	}

	if dataPath, indexPath, ok := findRecordPair(channelDir); ok {
		stream, err := readRecordStream(dataPath, indexPath, behavior)
		if err != nil {
			return nil, err
		}

		channel.Records = stream
	}

	entries, err := os.ReadDir(channelDir)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		m := segmentDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		number, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		seg, err := openSegment(filepath.Join(channelDir, entry.Name()), number, kind, behavior)
		if err != nil {
			return nil, err
		}

		channel.Segments = append(channel.Segments, *seg)
	}

	return channel, nil
}

func openSegment(segDir string, number int, kind layout.ChannelKind, behavior medstate.Behavior) (*Segment, error) {
	seg := &Segment{Number: number, Path: segDir}

	metaExt := "." + layout.TypeMetadata.String()
	dataExt := "." + layout.TypeTimeSeriesData.String()
	indexExt := "." + layout.TypeTimeSeriesIndex.String()

	if kind == layout.ChannelKindVideo {
		metaExt = "." + layout.TypeVideoMetadata.String()
		indexExt = "." + layout.TypeVideoIndex.String()
		dataExt = ""
	}

	entries, err := os.ReadDir(segDir)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		full := filepath.Join(segDir, entry.Name())

		switch {
		case strings.HasSuffix(entry.Name(), metaExt):
			seg.MetaPath = full
		case dataExt != "" && strings.HasSuffix(entry.Name(), dataExt):
			seg.DataPath = full
		case strings.HasSuffix(entry.Name(), indexExt):
			seg.IndexPath = full
		}
	}

	if seg.MetaPath == "" {
		return nil, fmt.Errorf("%w: segment %s has no metadata file", errs.ErrNotASegment, segDir)
	}

	metaFPS, err := fps.Open(seg.MetaPath, fpsFullReadDirectives(), behavior)
	if err != nil {
		return nil, err
	}

	seg.Meta = metaFPS

	if dataPath, indexPath, ok := findRecordPair(segDir); ok {
		seg.RecordsDataPath = dataPath
		seg.RecordsIndexPath = indexPath

		stream, err := readRecordStream(dataPath, indexPath, behavior)
		if err != nil {
			return nil, err
		}

		seg.Records = stream
	}

	return seg, nil
}

func fpsFullReadDirectives() fps.Directives {
	d := fps.DefaultDirectives()
	d.ReadMode = fps.ReadModeFull

	return d
}

// findRecordPair looks for a "*.rdat"/"*.ridx" pair directly inside dir;
// records are optional at every level (§3.7).
func findRecordPair(dir string) (dataPath, indexPath string, ok bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", false
	}

	dataExt := "." + layout.TypeRecordData.String()
	indexExt := "." + layout.TypeRecordIndex.String()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		full := filepath.Join(dir, entry.Name())

		switch {
		case strings.HasSuffix(entry.Name(), dataExt):
			dataPath = full
		case strings.HasSuffix(entry.Name(), indexExt):
			indexPath = full
		}
	}

	return dataPath, indexPath, dataPath != "" && indexPath != ""
}

// readRecordStream opens a record-data/record-indices file pair and
// parses the data file's body into a records.Stream.
func readRecordStream(dataPath, indexPath string, behavior medstate.Behavior) (*records.Stream, error) {
	dataFPS, err := fps.Open(dataPath, fpsFullReadDirectives(), behavior)
	if err != nil {
		return nil, err
	}
	defer dataFPS.Close()

	indexFPS, err := fps.Open(indexPath, fpsFullReadDirectives(), behavior)
	if err != nil {
		return nil, err
	}
	defer indexFPS.Close()

	dataRaw, err := dataFPS.ReadSlice(0, int(mustSize(dataFPS)))
	if err != nil {
		return nil, err
	}

	stream, err := records.ParseRecords(dataRaw[layout.UniversalHeaderSize:], nil, behavior)
	if err != nil {
		return nil, err
	}

	indexRaw, err := indexFPS.ReadSlice(0, int(mustSize(indexFPS)))
	if err != nil {
		return nil, err
	}

	indices, err := records.ParseIndices(indexRaw[layout.UniversalHeaderSize:])
	if err != nil {
		return nil, err
	}

	stream.Indices = indices

	return stream, nil
}

func mustSize(h *fps.FPS) int64 {
	size, err := h.Size()
	if err != nil {
		return layout.UniversalHeaderSize
	}

	return size
}
