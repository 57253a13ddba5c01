package cli

import (
	"context"
	"fmt"

	"github.com/existflow/calendarly/internal/store"
	"github.com/existflow/calendarly/internal/sync"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync data with the server",
	Long: `Sync the local snapshot with the server. The newer side wins whole;
there is no per-item merging.

Examples:
  calendarly sync
  calendarly sync push
  calendarly sync pull
  calendarly sync status
  calendarly sync server https://sync.example.com
  calendarly sync key`,
	RunE: runSync,
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local snapshot",
	RunE:  runSyncPush,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch the remote snapshot and apply it if newer",
	RunE:  runSyncPull,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE:  runSyncStatus,
}

var syncServerCmd = &cobra.Command{
	Use:   "server [url]",
	Short: "Set the sync server URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runSyncServer,
}

var syncKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Set up end-to-end payload encryption",
	RunE:  runSyncKey,
}

func init() {
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncServerCmd)
	syncCmd.AddCommand(syncKeyCmd)
}

// openEngine builds a sync engine, prompting for the encryption password when
// a payload key is configured.
func openEngine(db *store.Store) (*sync.Client, *sync.Engine, error) {
	client, err := sync.NewClient()
	if err != nil {
		return nil, nil, err
	}
	if !client.IsLoggedIn() {
		return nil, nil, sync.ErrNotLoggedIn
	}

	engine := sync.NewEngine(client, db)
	crypto, err := promptCrypto(client)
	if err != nil {
		return nil, nil, err
	}
	if crypto != nil {
		engine.WithCrypto(crypto)
	}
	return client, engine, nil
}

func promptCrypto(client *sync.Client) (*sync.Crypto, error) {
	crypto, err := client.Crypto("")
	if err != nil {
		return nil, err
	}
	if crypto == nil {
		return nil, nil
	}

	password, err := readPassword("Encryption password: ")
	if err != nil {
		return nil, err
	}
	return client.Crypto(password)
}

func runSync(cmd *cobra.Command, args []string) error {
	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	_, engine, err := openEngine(db)
	if err != nil {
		return err
	}

	fmt.Println("🔄 Syncing...")
	result, err := engine.Sync(context.Background(), st)
	if err != nil {
		return err
	}

	switch {
	case result.Pulled:
		fmt.Println("✓ Pulled newer snapshot from server")
	case result.Pushed:
		fmt.Println("✓ Pushed local snapshot")
	default:
		fmt.Println("✓ Already in sync")
	}
	return nil
}

func runSyncPush(cmd *cobra.Command, args []string) error {
	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	_, engine, err := openEngine(db)
	if err != nil {
		return err
	}

	if err := engine.Push(context.Background(), st); err != nil {
		return err
	}
	fmt.Println("✓ Pushed local snapshot")
	return nil
}

func runSyncPull(cmd *cobra.Command, args []string) error {
	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	_, engine, err := openEngine(db)
	if err != nil {
		return err
	}

	pulled, err := engine.Pull(context.Background(), st)
	if err != nil {
		return err
	}
	if pulled {
		fmt.Println("✓ Pulled newer snapshot from server")
	} else {
		fmt.Println("✓ Local snapshot is already current")
	}
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	client, err := sync.NewClient()
	if err != nil {
		return err
	}

	url, userID, lastSeen := client.Status()
	fmt.Printf("Server:    %s\n", url)
	if client.IsLoggedIn() {
		fmt.Printf("Account:   %s\n", userID)
		fmt.Printf("Last seen: %d\n", lastSeen)
	} else {
		fmt.Println("Account:   not logged in")
	}
	return nil
}

func runSyncServer(cmd *cobra.Command, args []string) error {
	client, err := sync.NewClient()
	if err != nil {
		return err
	}
	if err := client.SetServer(args[0]); err != nil {
		return err
	}
	fmt.Printf("✓ Sync server set to %s\n", args[0])
	return nil
}

func runSyncKey(cmd *cobra.Command, args []string) error {
	client, err := sync.NewClient()
	if err != nil {
		return err
	}

	password, err := readPassword("Encryption password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	display, err := client.GenerateEncryptionKey(password)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Encryption key configured (%s)\n", display)
	fmt.Println("  Snapshots are now encrypted before upload. Keep the password safe:")
	fmt.Println("  without it the server copy cannot be decrypted.")
	return nil
}
