package site

import "log"

func Init(profilePath string) {
	p, err := LoadProfile(profilePath)
	if err != nil {
		// The public pages can live without the profile; admin content
		// still works. Log loudly and serve 503 on the profile route.
		log.Println("site: profile not loaded:", err)
		return
	}
	profile = p
}
