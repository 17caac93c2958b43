package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"streamapi/internal/config"
	"streamapi/internal/stream"
)

const usage = `Usage: streamctl <command> [flags]

Commands:
  list                 list all videos in the account
  get <uid>            show metadata for one video
  pull <url> <name>    pull a video from a URL into Stream
  delete <uid>         delete a video
  download <uid>       print an MP4 download URL
  token <uid>          print a signed playback token
  usage                show storage plan usage in minutes
  keys create          create a signing key pair (PEM/JWK shown once!)
  keys list            list signing key ids

Credentials come from CF_* environment variables (or a .env file).
`

func main() {
	// Best effort; real environment variables win anyway.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load().Cloudflare
	ctx := context.Background()

	cf, err := stream.New(cfg)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	switch os.Args[1] {
	case "list":
		videos, err := cf.ListVideos(ctx)
		if err != nil {
			log.Fatalf("list videos: %v", err)
		}
		printJSON(videos)

	case "get":
		uid := requireArg(2, "video uid")
		env, err := cf.GetVideo(ctx, uid)
		if err != nil {
			log.Fatalf("get video %s: %v", uid, err)
		}
		printJSON(env)

	case "pull":
		fs := flag.NewFlagSet("pull", flag.ExitOnError)
		signed := fs.Bool("signed", false, "require signed URLs for playback")
		watermark := fs.String("watermark", "", "watermark profile uid")
		sourceURL := requireArg(2, "source url")
		name := requireArg(3, "video name")
		fs.Parse(os.Args[4:])

		uid, env, err := cf.PullFromURL(ctx, sourceURL, name, stream.PullOptions{
			RequireSignedURLs: *signed,
			WatermarkUID:      *watermark,
		})
		if err != nil {
			log.Fatalf("pull from url: %v", err)
		}
		fmt.Println(uid)
		printJSON(env)

	case "delete":
		uid := requireArg(2, "video uid")
		if _, err := cf.DeleteVideo(ctx, uid); err != nil {
			log.Fatalf("delete video %s: %v", uid, err)
		}
		fmt.Println("deleted", uid)

	case "download":
		fs := flag.NewFlagSet("download", flag.ExitOnError)
		wait := fs.Bool("wait", false, "wait until the download is ready")
		uid := requireArg(2, "video uid")
		fs.Parse(os.Args[3:])

		u, err := cf.GetDownloadURL(ctx, uid, *wait)
		if err != nil {
			log.Fatalf("download url for %s: %v", uid, err)
		}
		fmt.Println(u)

	case "token":
		uid := requireArg(2, "video uid")
		tok, err := cf.SignedPlaybackToken(ctx, uid)
		if err != nil {
			log.Fatalf("playback token for %s: %v", uid, err)
		}
		fmt.Println(tok)

	case "usage":
		u, err := cf.StorageUsage(ctx)
		if err != nil {
			log.Fatalf("storage usage: %v", err)
		}
		fmt.Printf("total:     %d minutes\nused:      %d minutes\nremaining: %d minutes\n",
			u.TotalMinutes, u.UsedMinutes, u.RemainingMinutes)

	case "keys":
		switch requireArg(2, "keys subcommand (create|list)") {
		case "create":
			key, _, err := stream.CreateSigningKeys(ctx, cfg)
			if err != nil {
				log.Fatalf("create signing keys: %v", err)
			}
			// Shown once by Cloudflare; print everything.
			printJSON(key)
		case "list":
			env, err := cf.ListSigningKeys(ctx)
			if err != nil {
				log.Fatalf("list signing keys: %v", err)
			}
			printJSON(env)
		default:
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func requireArg(i int, what string) string {
	if len(os.Args) <= i || os.Args[i] == "" {
		log.Fatalf("missing argument: %s", what)
	}
	return os.Args[i]
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}
