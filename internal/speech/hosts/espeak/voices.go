package espeak

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/dgnsrekt/cardvoice/internal/speech"
)

// parseVoices reads the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  cmn             --/M      Chinese_(Mandarin) sit/cmn              (zh-cmn 5)(zh 5)
//
// The language column addresses the voice with -v.
func parseVoices(out []byte, defaultVoice string) []speech.Voice {
	defaultVoice = strings.ToLower(strings.TrimSpace(defaultVoice))

	var voices []speech.Voice
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		lang, name, file := fields[1], fields[3], fields[4]
		if seen[lang] {
			continue
		}
		seen[lang] = true

		id := strings.ToLower(lang)
		voices = append(voices, speech.Voice{
			ID:           id,
			Name:         strings.ReplaceAll(name, "_", " "),
			Lang:         lang,
			Default:      defaultVoice != "" && (id == defaultVoice || strings.ToLower(file) == defaultVoice),
			LocalService: true,
		})
	}
	return voices
}
