package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, u, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

// doJSON corta con error en cualquier status fuera de 2xx.
func (c *client) doJSON(method, path string, payload any) (int, []byte, error) {
	var body []byte
	if payload != nil {
		body, _ = json.Marshal(payload)
	}
	status, b, err := c.do(method, path, body)
	if err != nil {
		return 0, nil, err
	}
	if status/100 != 2 {
		return status, b, fmt.Errorf("%s %s fallo: status=%d body=%s", method, path, status, string(b))
	}
	return status, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		baseURL = envOr("HELLOCARD_API_URL", "http://localhost:8080")
		token   = envOr("HELLOCARD_TOKEN", "")
		out     = envOr("HELLOCARD_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "hellocard",
		Short: "CLI de administración de HelloCard (habla con /v1)",
	}
	root.PersistentFlags().StringVar(&baseURL, "api-url", baseURL, "URL base de la API (env HELLOCARD_API_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Access token Bearer (env HELLOCARD_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	// los flags se resuelven recién en Execute
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cl.BaseURL = baseURL
		cl.Token = token
		cl.OutFormat = out
		return nil
	}

	// login: imprime el access token para exportarlo en HELLOCARD_TOKEN
	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login y devuelve el access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loginEmail == "" || loginPassword == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			_, body, err := cl.doJSON("POST", "/v1/auth/login", map[string]string{
				"email":    loginEmail,
				"password": loginPassword,
			})
			if err != nil {
				return err
			}
			if cl.OutFormat == "text" {
				var resp struct {
					AccessToken string `json:"access_token"`
				}
				if json.Unmarshal(body, &resp) == nil && resp.AccessToken != "" {
					fmt.Println(resp.AccessToken)
					return nil
				}
			}
			cl.print(0, body)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email de la cuenta")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password de la cuenta")

	// me: snapshot de la sesión actual
	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Muestra la cuenta de la sesión actual",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, body, err := cl.doJSON("GET", "/v1/auth/me", nil)
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Operaciones de consola (vía /v1/admin)",
	}

	// ping: /v1/admin/nav devuelve las secciones visibles para el token
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Verifica acceso a la consola admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.doJSON("GET", "/v1/admin/nav", nil)
			if err != nil {
				return err
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}

	// ── users ──
	usersCmd := &cobra.Command{Use: "users", Short: "Gestión de cuentas"}

	var usersQuery, usersRole, usersStatus string
	var usersLimit, usersOffset int
	usersListCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista cuentas",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if usersQuery != "" {
				q.Set("q", usersQuery)
			}
			if usersRole != "" {
				q.Set("role", usersRole)
			}
			if usersStatus != "" {
				q.Set("status", usersStatus)
			}
			if usersLimit > 0 {
				q.Set("limit", fmt.Sprint(usersLimit))
			}
			if usersOffset > 0 {
				q.Set("offset", fmt.Sprint(usersOffset))
			}
			path := "/v1/admin/users"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			_, body, err := cl.doJSON("GET", path, nil)
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}
	usersListCmd.Flags().StringVar(&usersQuery, "q", "", "Busca por email o nombre")
	usersListCmd.Flags().StringVar(&usersRole, "role", "", "Filtra por rol (user|subadmin|admin)")
	usersListCmd.Flags().StringVar(&usersStatus, "status", "", "Filtra por estado (active|disabled)")
	usersListCmd.Flags().IntVar(&usersLimit, "limit", 0, "Máximo de filas")
	usersListCmd.Flags().IntVar(&usersOffset, "offset", 0, "Offset de paginado")

	var statusID, statusValue string
	usersStatusCmd := &cobra.Command{
		Use:   "set-status",
		Short: "Habilita o deshabilita una cuenta",
		RunE: func(cmd *cobra.Command, args []string) error {
			if statusID == "" || statusValue == "" {
				return fmt.Errorf("--id y --status son requeridos")
			}
			_, body, err := cl.doJSON("PUT", "/v1/admin/users/"+statusID+"/status", map[string]string{"status": statusValue})
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}
	usersStatusCmd.Flags().StringVar(&statusID, "id", "", "ID de la cuenta")
	usersStatusCmd.Flags().StringVar(&statusValue, "status", "", "Estado: active|disabled")

	var grantsID, grantsPerms string
	usersGrantsCmd := &cobra.Command{
		Use:   "set-grants",
		Short: "Reemplaza los permisos de un subadmin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if grantsID == "" {
				return fmt.Errorf("--id es requerido")
			}
			perms := []string{}
			for _, p := range strings.Split(grantsPerms, ",") {
				if p = strings.TrimSpace(p); p != "" {
					perms = append(perms, p)
				}
			}
			_, body, err := cl.doJSON("PUT", "/v1/admin/users/"+grantsID+"/grants", map[string]any{"permissions": perms})
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}
	usersGrantsCmd.Flags().StringVar(&grantsID, "id", "", "ID de la cuenta subadmin")
	usersGrantsCmd.Flags().StringVar(&grantsPerms, "perms", "", "Permisos separados por coma (ej. users:view,invoices:view)")

	usersCmd.AddCommand(usersListCmd, usersStatusCmd, usersGrantsCmd)

	// ── admins ──
	var newAdminEmail, newAdminName, newAdminPassword string
	adminsCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea una cuenta subadmin verificada",
		RunE: func(cmd *cobra.Command, args []string) error {
			if newAdminEmail == "" || newAdminPassword == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			_, body, err := cl.doJSON("POST", "/v1/admin/admins", map[string]string{
				"email":    newAdminEmail,
				"name":     newAdminName,
				"password": newAdminPassword,
			})
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}
	adminsCreateCmd.Flags().StringVar(&newAdminEmail, "email", "", "Email del nuevo subadmin")
	adminsCreateCmd.Flags().StringVar(&newAdminName, "name", "", "Nombre visible")
	adminsCreateCmd.Flags().StringVar(&newAdminPassword, "password", "", "Password inicial")

	adminsCmd := &cobra.Command{Use: "admins", Short: "Cuentas de consola"}
	adminsCmd.AddCommand(adminsCreateCmd)

	// ── invoices ──
	invoicesCmd := &cobra.Command{Use: "invoices", Short: "Facturación"}
	invoicesListCmd := listCommand(cl, "Lista facturas", "/v1/admin/invoices")
	var voidID string
	invoicesVoidCmd := &cobra.Command{
		Use:   "void",
		Short: "Anula una factura pendiente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if voidID == "" {
				return fmt.Errorf("--id es requerido")
			}
			_, body, err := cl.doJSON("POST", "/v1/admin/invoices/"+voidID+"/void", nil)
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}
	invoicesVoidCmd.Flags().StringVar(&voidID, "id", "", "ID de la factura")
	invoicesCmd.AddCommand(invoicesListCmd, invoicesVoidCmd)

	// ── rewards ──
	rewardsCmd := &cobra.Command{Use: "rewards", Short: "Recompensas de referidos"}
	rewardsListCmd := listCommand(cl, "Lista recompensas", "/v1/admin/rewards")
	var resolveID, resolveStatus string
	rewardsResolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Aprueba o rechaza una recompensa pendiente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if resolveID == "" || resolveStatus == "" {
				return fmt.Errorf("--id y --status son requeridos")
			}
			_, body, err := cl.doJSON("POST", "/v1/admin/rewards/"+resolveID+"/resolve", map[string]string{"status": resolveStatus})
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}
	rewardsResolveCmd.Flags().StringVar(&resolveID, "id", "", "ID de la recompensa")
	rewardsResolveCmd.Flags().StringVar(&resolveStatus, "status", "", "Resolución: approved|rejected")
	rewardsCmd.AddCommand(rewardsListCmd, rewardsResolveCmd)

	// ── orders ──
	ordersCmd := &cobra.Command{Use: "orders", Short: "Pedidos de tarjetas físicas"}
	ordersListCmd := listCommand(cl, "Lista pedidos", "/v1/admin/orders")
	var advanceID, advanceTracking string
	ordersAdvanceCmd := &cobra.Command{
		Use:   "advance",
		Short: "Avanza un pedido al siguiente estado",
		RunE: func(cmd *cobra.Command, args []string) error {
			if advanceID == "" {
				return fmt.Errorf("--id es requerido")
			}
			var payload any
			if advanceTracking != "" {
				payload = map[string]string{"tracking_id": advanceTracking}
			}
			_, body, err := cl.doJSON("POST", "/v1/admin/orders/"+advanceID+"/advance", payload)
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}
	ordersAdvanceCmd.Flags().StringVar(&advanceID, "id", "", "ID del pedido")
	ordersAdvanceCmd.Flags().StringVar(&advanceTracking, "tracking", "", "Tracking del envío (al pasar a shipped)")
	ordersCmd.AddCommand(ordersListCmd, ordersAdvanceCmd)

	// ── subscriptions ──
	subsCmd := &cobra.Command{Use: "subscriptions", Short: "Suscripciones"}
	subsListCmd := listCommand(cl, "Lista suscripciones", "/v1/admin/subscriptions")
	var cancelID string
	var cancelNow bool
	subsCancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancela una suscripción (default: al cierre del período)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cancelID == "" {
				return fmt.Errorf("--id es requerido")
			}
			_, body, err := cl.doJSON("POST", "/v1/admin/subscriptions/"+cancelID+"/cancel", map[string]bool{"immediate": cancelNow})
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}
	subsCancelCmd.Flags().StringVar(&cancelID, "id", "", "ID de la suscripción")
	subsCancelCmd.Flags().BoolVar(&cancelNow, "now", false, "Cancela inmediato en vez de al cierre del período")
	subsCmd.AddCommand(subsListCmd, subsCancelCmd)

	// ── coupons ──
	couponsCmd := &cobra.Command{Use: "coupons", Short: "Cupones de descuento"}
	couponsCmd.AddCommand(listCommand(cl, "Lista cupones", "/v1/admin/coupons"))

	adminCmd.AddCommand(pingCmd, usersCmd, adminsCmd, invoicesCmd, couponsCmd, rewardsCmd, ordersCmd, subsCmd)
	root.AddCommand(loginCmd, meCmd, adminCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// listCommand arma el subcomando "list" típico de cada recurso de consola.
func listCommand(cl *client, short, path string) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if limit > 0 {
				q.Set("limit", fmt.Sprint(limit))
			}
			if offset > 0 {
				q.Set("offset", fmt.Sprint(offset))
			}
			p := path
			if len(q) > 0 {
				p += "?" + q.Encode()
			}
			_, body, err := cl.doJSON("GET", p, nil)
			if err != nil {
				return err
			}
			cl.print(0, body)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Máximo de filas")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset de paginado")
	return cmd
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
