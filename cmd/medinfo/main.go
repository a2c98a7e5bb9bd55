// Command medinfo is a read-only inspector for MED 1.0 sessions: it
// prints universal headers, the channel/segment tree, a segment's
// contiguous spans, and runs CRC/alignment verification.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MEDFormat/MEDC-sub005/hierarchy"
	"github.com/MEDFormat/MEDC-sub005/layout"
	medc "github.com/MEDFormat/MEDC-sub005"
	"github.com/MEDFormat/MEDC-sub005/medstate"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "medinfo",
		Short: "Inspect MED 1.0 sessions",
		Long:  "medinfo reads and reports on MED 1.0 session directories without modifying them.",
	}

	sessionCmd := &cobra.Command{
		Use:   "session <path>",
		Short: "Print a session's universal header and channel/segment tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runSession,
	}

	segmentCmd := &cobra.Command{
		Use:   "segment <session-path> <channel> <number>",
		Short: "Print one segment's metadata header and contiguous spans",
		Args:  cobra.ExactArgs(3),
		RunE:  runSegment,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <path>",
		Short: "Run CRC and alignment checks over a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(sessionCmd, segmentCmd, verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSession(cmd *cobra.Command, args []string) error {
	session, err := medc.OpenSession(args[0], medc.DefaultOptions())
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Printf("session %q  uid=%d  channels=%d\n", session.Name, session.UID, len(session.Channels))

	for _, ch := range session.Channels {
		kind := "timeseries"
		if ch.Kind == layout.ChannelKindVideo {
			kind = "video"
		}

		fmt.Printf("  channel %q (%s)  segments=%d\n", ch.Name, kind, len(ch.Segments))

		for _, seg := range ch.Segments {
			fmt.Printf("    segment %04d  meta=%s  data=%s\n", seg.Number, seg.MetaPath, seg.DataPath)
		}
	}

	return nil
}

func runSegment(cmd *cobra.Command, args []string) error {
	sessionPath, channelName, numberArg := args[0], args[1], args[2]

	var number int
	if _, err := fmt.Sscanf(numberArg, "%d", &number); err != nil {
		return fmt.Errorf("medinfo: invalid segment number %q: %w", numberArg, err)
	}

	session, err := medc.OpenSession(sessionPath, medc.DefaultOptions())
	if err != nil {
		return err
	}
	defer session.Close()

	var channel *hierarchy.Channel

	for i := range session.Channels {
		if session.Channels[i].Name == channelName {
			channel = &session.Channels[i]
			break
		}
	}

	if channel == nil {
		return fmt.Errorf("medinfo: no channel named %q", channelName)
	}

	seg, ok := session.FindSegment(channel.Path, number)
	if !ok {
		return fmt.Errorf("medinfo: no segment %d in channel %q", number, channelName)
	}

	fmt.Printf("segment %04d  path=%s\n", seg.Number, seg.Path)

	if seg.Meta != nil {
		fmt.Printf("  header type=%s version=%d.%d\n", seg.Meta.Header.TypeCode.String(), seg.Meta.Header.VersionMajor, seg.Meta.Header.VersionMinor)
	}

	contigua, err := medc.Contigua(channel)
	if err != nil {
		return err
	}

	fmt.Printf("  contigua=%d\n", len(contigua))

	for _, c := range contigua {
		if c.StartSegment != seg.Number && c.EndSegment != seg.Number {
			continue
		}

		fmt.Printf("    [%d..%d] samples [%d..%d] segments [%d..%d]\n",
			c.StartTime, c.EndTime, c.StartSample, c.EndSample, c.StartSegment, c.EndSegment)
	}

	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	if err := layout.VerifyLayout(); err != nil {
		return fmt.Errorf("medinfo: layout self-check failed: %w", err)
	}

	fmt.Println("layout self-check: OK")

	session, err := medc.OpenSession(args[0], medc.DefaultOptions())
	if err != nil {
		return err
	}
	defer session.Close()

	g, err := medstate.Get()
	if err != nil {
		return err
	}

	failures := 0

	for _, ch := range session.Channels {
		for _, seg := range ch.Segments {
			if seg.Meta == nil {
				continue
			}

			raw, err := seg.Meta.ReadSlice(0, layout.UniversalHeaderSize)
			if err != nil {
				g.Warn(medstate.DefaultBehavior(), "medinfo.verify", "segment %04d: %v", seg.Number, err)
				failures++

				continue
			}

			if err := layout.VerifyHeaderCRC(raw); err != nil {
				fmt.Printf("  FAIL header CRC: channel=%q segment=%04d: %v\n", ch.Name, seg.Number, err)
				failures++
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("medinfo: %d verification failure(s)", failures)
	}

	fmt.Println("verify: OK")

	return nil
}
