// Package flowtts provides a Go client for Tencent Cloud TRTC FlowTTS
// streaming speech synthesis with caller-supplied (BYOK) credentials.
//
// The provider streams Server-Sent Events, each carrying a JSON object with
// Type, Audio (base64 PCM) and IsEnd fields. The package turns that stream
// into a single WAV file:
//
//	raw SSE items -> EventReader -> Aggregate -> wav.Encode
//
// and maps every failure to a small set of error kinds whose messages never
// contain credentials.
//
// # Basic Usage
//
//	client := flowtts.NewClient(flowtts.Credentials{
//	    SecretID:  secretID,
//	    SecretKey: secretKey,
//	    SdkAppID:  sdkAppID,
//	})
//
//	res, err := client.Synthesize(ctx, &flowtts.SynthesizeRequest{
//	    Text:       "你好，世界",
//	    SampleRate: 24000,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("output.wav", res.Audio, 0644)
//
// # Streaming
//
// Stream returns a pull-based reader. The reader releases the connection as
// soon as it sees the end event; Close is idempotent:
//
//	reader, err := client.Stream(ctx, req)
//	if err != nil {
//	    return err
//	}
//	defer reader.Close()
//	for ev, err := range reader.Events() {
//	    ...
//	}
//
// # Error Handling
//
//	res, err := client.Synthesize(ctx, req)
//	if e, ok := flowtts.AsSynthesisError(err); ok {
//	    switch e.Kind {
//	    case flowtts.KindAuthFailure:
//	        // bad SecretId / SecretKey / SdkAppId
//	    case flowtts.KindRateLimited:
//	        // retry later
//	    }
//	}
package flowtts
