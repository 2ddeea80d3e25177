package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Device selection
		"Selected adapter %s (vendor 0x%04x, %d MiB dedicated)": "アダプタ %s を選択しました (ベンダー 0x%04x, 専用メモリ %d MiB)",
		"No suitable adapter enumerated, using driver default":  "適切なアダプタが見つからないため、ドライバのデフォルトを使用します",

		// Session negotiation
		"Reader hints rejected, retrying without hints": "リーダーヒントが拒否されたため、ヒントなしで再試行します",
		"Negotiated %s %dx%d":                           "%s %dx%d でネゴシエートしました",

		// Probe
		"Tail scan seek failed: %v":                "末尾スキャンのシークに失敗しました: %v",
		"Tail scan read failed after %d reads: %v": "末尾スキャンが %d 回の読み取り後に失敗しました: %v",
		"Measured duration %.3f s from tail scan":  "末尾スキャンから長さ %.3f 秒を測定しました",
		"Seeking to frame %d (%.3f s)":             "フレーム %d (%.3f 秒) へシーク中",

		// Pull loop
		"End of stream after %d frames":    "%d フレームでストリーム終端に達しました",
		"Consumer stopped after %d frames": "コンシューマが %d フレームで停止しました",
	})
}
