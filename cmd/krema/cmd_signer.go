package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/krema-build/krema/internal/bundler"
)

// signedEnvelope is the on-the-wire shape internal/updater.parseAndVerify
// expects: a raw manifest plus its base64 ed25519 signature.
type signedEnvelope struct {
	Manifest  json.RawMessage `json:"manifest"`
	Signature string          `json:"signature"`
}

func newSignerCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "signer",
		Short: "Generate an update-signing keypair and sign release manifests",
	}
	root.AddCommand(newSignerGenerateCommand(), newSignerSignCommand())
	return root
}

func newSignerGenerateCommand() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an ed25519 signing keypair for the updater",
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := bundler.GenerateKeyPair()
			if err != nil {
				return fmt.Errorf("generate keypair: %w", err)
			}

			pubPath := outDir + "/updater.pub"
			privPath := outDir + "/updater.key"
			if outDir == "" {
				pubPath = "updater.pub"
				privPath = "updater.key"
			} else if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			if err := os.WriteFile(pubPath, []byte(bundler.EncodePublicKey(pair.PublicKey)), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", pubPath, err)
			}
			// The private key is what signs every release: keep it off
			// disk for anyone but the signing operator.
			if err := os.WriteFile(privPath, []byte(bundler.EncodePrivateKey(pair.PrivateKey)), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", privPath, err)
			}

			fmt.Printf("krema: wrote %s and %s\n", pubPath, privPath)
			fmt.Println("krema: put the contents of", pubPath, "in the manifest's [updater] pubkey field")
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write updater.pub/updater.key into (default: current directory)")
	return cmd
}

func newSignerSignCommand() *cobra.Command {
	var keyPath, manifestPath, outPath string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a release manifest JSON file, producing a signed envelope",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyPath == "" || manifestPath == "" {
				return fmt.Errorf("--key and --manifest are required")
			}

			encodedKey, err := os.ReadFile(keyPath)
			if err != nil {
				return fmt.Errorf("read private key: %w", err)
			}
			priv, err := bundler.DecodePrivateKey(string(encodedKey))
			if err != nil {
				return fmt.Errorf("decode private key: %w", err)
			}

			manifest, err := os.ReadFile(manifestPath)
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}

			sig := bundler.Sign(priv, manifest)
			envelope := signedEnvelope{
				Manifest:  json.RawMessage(manifest),
				Signature: base64.StdEncoding.EncodeToString(sig),
			}
			out, err := json.MarshalIndent(envelope, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal signed envelope: %w", err)
			}

			if outPath == "" {
				fmt.Println(string(out))
				return nil
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Printf("krema: wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "path to the encoded private key file (from `signer generate`)")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to the release manifest JSON to sign")
	cmd.Flags().StringVar(&outPath, "out", "", "write the signed envelope here instead of stdout")
	return cmd
}
