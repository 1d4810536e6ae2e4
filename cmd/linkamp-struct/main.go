package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"linkamp/internal/config"
	"linkamp/internal/playlist"
)

// Session remembers the last answers between runs.
type Session struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

func main() {
	outPtr := flag.String("json", "", "Site JSON output path")
	flag.Parse()

	def, _ := config.ResolvePath(*outPtr)
	cfg, out := runInterview(def)

	if err := config.Save(out, cfg); err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n[DONE] %d links, %d tracks.\nJSON: %s\n", len(cfg.Links), len(cfg.Playlist), out)
}

func runInterview(defaultOut string) (config.Config, string) {
	sess := loadSession()

	rl, err := readline.NewEx(&readline.Config{
		Prompt: ">> ",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItemDynamic(func(line string) []string {
				return listFiles(line)
			}),
		),
	})
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		fmt.Println("\n=== LINKAMP-STRUCT: INTERACTIVE MODE ===")
		cfg := config.Default()
		cfg.Name = ask(rl, "1. Name", sess.Name)
		cfg.Handle = ask(rl, "2. Handle", sess.Handle)
		cfg.Bio = ask(rl, "3. Bio", sess.Bio)
		cfg.Avatar = ask(rl, "4. Avatar URL", sess.Avatar)

		fmt.Println("5. Links (empty label to finish)")
		cfg.Links = nil
		for i := 1; ; i++ {
			label := ask(rl, fmt.Sprintf("   %02d. Label", i), "")
			if label == "" {
				break
			}
			url := ask(rl, fmt.Sprintf("   %02d. URL", i), "")
			cfg.Links = append(cfg.Links, config.Link{Label: strings.ToUpper(label), URL: url})
		}

		fmt.Println("6. Playlist (empty source to finish, TAB completes paths)")
		cfg.Playlist = nil
		for i := 1; ; i++ {
			src := ask(rl, fmt.Sprintf("   %02d. Source (.mp3/.wav/.lamp)", i), "")
			if src == "" {
				break
			}
			base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			t := playlist.Track{
				Src:    src,
				Title:  ask(rl, fmt.Sprintf("   %02d. Title", i), base),
				Artist: ask(rl, fmt.Sprintf("   %02d. Artist", i), ""),
			}
			if strings.EqualFold(filepath.Ext(src), ".lamp") {
				t.KeyEnv = ask(rl, fmt.Sprintf("   %02d. Key env var (sealed only)", i), "")
			}
			cfg.Playlist = append(cfg.Playlist, t)
		}

		out := ask(rl, "7. JSON Output Path", defaultOut)

		fmt.Println("\n--- REVIEW SELECTIONS ---")
		fmt.Printf(" [Name]   : %s\n [Handle] : %s\n [Bio]    : %s\n [Avatar] : %s\n", cfg.Name, cfg.Handle, cfg.Bio, cfg.Avatar)
		for i, l := range cfg.Links {
			fmt.Printf(" [Link %d] : %s -> %s\n", i+1, l.Label, l.URL)
		}
		for i, t := range cfg.Playlist {
			fmt.Printf(" [Track %d]: %s (%s)\n", i+1, t.DisplayName(), t.Src)
		}
		fmt.Printf(" [JSON]   : %s\n", out)
		fmt.Println("--------------------------")

		if err := cfg.Validate(); err != nil {
			fmt.Printf(" [!] %v\n", err)
		}

		ans := ask(rl, "Proceed? (y) Yes / (r) Restart / (q) Quit", "y")
		switch ans {
		case "y":
			saveSession(Session{cfg.Name, cfg.Handle, cfg.Bio, cfg.Avatar})
			return cfg, out
		case "q":
			os.Exit(0)
		}
	}
}

func ask(rl *readline.Instance, label, defaultVal string) string {
	rl.SetPrompt(fmt.Sprintf("%s [%s]: ", label, defaultVal))
	line, _ := rl.Readline()
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

func listFiles(line string) []string {
	dir := filepath.Dir(line)
	if line == "" {
		dir = "."
	}
	entries, _ := os.ReadDir(dir)
	var names []string
	for _, e := range entries {
		name := filepath.Join(dir, e.Name())
		if strings.HasPrefix(name, line) {
			names = append(names, name)
		}
	}
	return names
}

func sessionPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".linkamp_struct_session")
}

func loadSession() Session {
	s := Session{Name: "SHUBHAM CHOUDHARY", Handle: "@animeforensic"}
	if b, err := os.ReadFile(sessionPath()); err == nil {
		json.Unmarshal(b, &s)
	}
	return s
}

func saveSession(s Session) {
	b, _ := json.Marshal(s)
	os.WriteFile(sessionPath(), b, 0644)
}
