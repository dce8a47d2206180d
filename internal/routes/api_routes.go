package routes

import (
	"github.com/go-chi/chi/v5"

	"resq-relief/resq/internal/api"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/middleware"
)

// RegisterAPIRoutes registers everything under /api. Each resource is a
// sub-router; groups inside it stack Authenticate and RequireRoles.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, authn *middleware.Authenticator, limiter *middleware.RateLimiter) {
	admin := middleware.RequireRoles(constants.RoleAdmin)
	victim := middleware.RequireRoles(constants.RoleVictim)
	donor := middleware.RequireRoles(constants.RoleDonor)
	volunteer := middleware.RequireRoles(constants.RoleVolunteer)

	r.Route("/api", func(apiR chi.Router) {
		apiR.Use(limiter.Middleware)

		apiR.With(authn.OptionalAuth).Get("/stats", handlers.PublicStats())

		apiR.Route("/auth", func(a chi.Router) {
			a.Post("/register", handlers.Register())
			a.Post("/login", handlers.Login())

			a.Group(func(protected chi.Router) {
				protected.Use(authn.Authenticate)
				protected.Post("/logout", handlers.Logout())
				protected.Get("/me", handlers.Me())
				protected.Put("/profile", handlers.UpdateProfile())
				protected.Put("/password", handlers.ChangePassword())
			})
		})

		apiR.Route("/disasters", func(d chi.Router) {
			d.Group(func(public chi.Router) {
				public.Use(authn.OptionalAuth)
				public.Get("/", handlers.ListDisasters())
				public.Get("/search", handlers.SearchDisasters())
				public.Get("/{id}", handlers.GetDisaster())
			})

			d.Group(func(protected chi.Router) {
				protected.Use(authn.Authenticate)
				protected.Post("/report", handlers.ReportDisaster())

				protected.Group(func(adm chi.Router) {
					adm.Use(admin)
					adm.Post("/", handlers.AddDisaster())
					adm.Put("/{id}", handlers.UpdateDisaster())
					adm.Put("/{id}/verify", handlers.VerifyDisaster())
					adm.Put("/{id}/reject", handlers.RejectDisaster())
					adm.Put("/{id}/resolve", handlers.ResolveDisaster())
					adm.Delete("/{id}", handlers.DeleteDisaster())
				})
			})
		})

		apiR.Route("/aid-requests", func(a chi.Router) {
			a.Use(authn.Authenticate)

			a.Group(func(v chi.Router) {
				v.Use(victim)
				v.Post("/", handlers.CreateAidRequest())
				v.Get("/my-requests", handlers.MyAidRequests())
			})

			a.Group(func(adm chi.Router) {
				adm.Use(admin)
				adm.Get("/", handlers.ListAidRequests())
				adm.Get("/pending", handlers.PendingAidRequests())
				adm.Put("/{id}/approve", handlers.ApproveAidRequest())
				adm.Put("/{id}/reject", handlers.RejectAidRequest())
				adm.Put("/{id}/status", handlers.UpdateAidRequestStatus())
			})

			a.With(middleware.RequireRoles(constants.RoleVictim, constants.RoleAdmin)).
				Get("/{id}", handlers.GetAidRequest())
		})

		apiR.Route("/donations", func(d chi.Router) {
			d.Use(authn.Authenticate)

			d.Group(func(dn chi.Router) {
				dn.Use(donor)
				dn.Post("/money", handlers.CreateMoneyDonation())
				dn.Post("/items", handlers.CreateItemDonation())
				dn.Get("/my-donations", handlers.MyDonations())
			})

			d.Group(func(adm chi.Router) {
				adm.Use(admin)
				adm.Get("/", handlers.ListDonations())
				adm.Put("/{id}/verify", handlers.VerifyDonation())
				adm.Put("/{id}/reject", handlers.RejectDonation())
				adm.Put("/{id}/status", handlers.UpdateDonationStatus())
			})

			d.With(middleware.RequireRoles(constants.RoleDonor, constants.RoleAdmin)).
				Get("/{id}", handlers.GetDonation())
		})

		apiR.Route("/shelters", func(s chi.Router) {
			s.With(authn.OptionalAuth).Get("/available", handlers.AvailableShelters())

			s.Group(func(protected chi.Router) {
				protected.Use(authn.Authenticate)
				protected.Get("/{id}", handlers.GetShelter())

				protected.Group(func(dn chi.Router) {
					dn.Use(donor)
					dn.Post("/", handlers.OfferShelter())
					dn.Get("/my-shelters", handlers.MyShelters())
				})

				protected.Group(func(owner chi.Router) {
					owner.Use(middleware.RequireRoles(constants.RoleDonor, constants.RoleAdmin))
					owner.Put("/{id}", handlers.UpdateShelter())
					owner.Delete("/{id}", handlers.DeleteShelter())
				})

				protected.Group(func(adm chi.Router) {
					adm.Use(admin)
					adm.Get("/", handlers.ListShelters())
					adm.Put("/{id}/occupancy", handlers.UpdateShelterOccupancy())
				})
			})
		})

		apiR.Route("/volunteers", func(v chi.Router) {
			v.Use(authn.Authenticate)

			v.Group(func(vol chi.Router) {
				vol.Use(volunteer)
				vol.Get("/tasks/available", handlers.AvailableTasks())
				vol.Get("/my-tasks", handlers.MyTasks())
				vol.Post("/tasks/{id}/assign", handlers.AssignTask())
				vol.Put("/profile", handlers.UpdateVolunteerProfile())
			})

			v.Group(func(both chi.Router) {
				both.Use(middleware.RequireRoles(constants.RoleVolunteer, constants.RoleAdmin))
				both.Get("/tasks/{id}", handlers.GetTask())
				both.Put("/tasks/{id}/status", handlers.UpdateTaskStatus())
			})

			v.Group(func(adm chi.Router) {
				adm.Use(admin)
				adm.Post("/tasks", handlers.CreateTask())
				adm.Get("/tasks", handlers.ListTasks())
			})
		})

		apiR.Route("/admin", func(a chi.Router) {
			a.Use(authn.Authenticate, admin)

			a.Get("/dashboard", handlers.Dashboard())
			a.Get("/users", handlers.ListUsers())
			a.Post("/users", handlers.CreateUser())
			a.Get("/users/{id}", handlers.GetUser())
			a.Put("/users/{id}", handlers.UpdateUser())
			a.Delete("/users/{id}", handlers.DeleteUser())
			a.Put("/users/{id}/verify", handlers.VerifyUser())
			a.Put("/users/{id}/active", handlers.SetUserActive())
		})
	})
}
