// Package remix turns an uploaded song into a stylized remix: it
// time-stretches the track, runs it through an effect chain chosen from a
// fixed catalog, mixes optional background layers underneath and encodes
// the result.
//
// The whole track is processed in memory; there is no streaming mode.
//
// # Quick Start
//
//	req := remix.NewRequest(songBytes)
//	req.Mode = remix.ModeThemed
//	req.Theme = remix.ThemeVintage
//	req.Texture.Data = crackleBytes
//
//	res, err := remix.Remix(req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("remix."+res.Format, res.Data, 0o644)
//
// # Pipeline
//
// Each remix runs these steps in order:
//
//  1. Decode the primary track (WAV or MP3) and any background layers.
//  2. Normalize everything to 16-bit stereo at 44.1kHz.
//  3. Resolve the mode or theme to an effect [Chain] and a speed factor.
//  4. Time-stretch the primary track by the effective speed. Pitch moves
//     with speed, like a turntable.
//  5. Apply the effect chain.
//  6. Loop each background layer to the primary track's original length,
//     attenuate it and mix it in.
//  7. Encode with the configured [Exporter], Ogg Opus by default.
//
// # Modes and Themes
//
// [ModeLofi] (the default), [ModeChipmunk] and [ModeNightcore] build their
// chains from the request's pitch and reverb settings. [ModeThemed] uses one
// of eight fixed recipes; see [Themes] and [Describe]. With
// [Request.Surprise] set a theme is drawn at random.
//
// # Determinism
//
// Randomness only enters through surprise selection and the alien theme.
// Setting [Request.Rand] to a seeded source such as
// rand.New(rand.NewPCG(1, 2)) makes the whole remix reproducible.
//
// # Errors
//
// Every error wraps one of [ErrDecode], [ErrParameter], [ErrProcessing] or
// [ErrExport], and pipeline failures are reported as [*StageError] naming
// the step that failed.
package remix
