// Package hcloud implements provisioning.Provider on Hetzner Cloud.
//
// Hetzner has no network tags, so instance tags become labels (see
// naming.TagLabel) and the firewall is applied through a label selector.
// Zones are datacenter names ("fsn1-dc14"); servers are placed in the
// derived location ("fsn1"). Authorized keys are registered as project SSH
// keys and installed for root.
package hcloud
